// Package mmapfile memory-maps an .rff file for fast, zero-copy reads by
// the command-line "check" path. The core rff package stays entirely
// io.Reader/io.Writer based; this package is where file-specific,
// syscall-backed I/O lives.
package mmapfile

import (
	"bytes"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// File is a memory-mapped, read-only view of an .rff file on disk.
type File struct {
	f    *os.File
	data []byte
}

// Open maps path into memory read-only and advises the kernel that access
// will be random. An empty file is not mapped; its File reads as empty.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mmapfile: open %s: %w", path, err)
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("mmapfile: stat %s: %w", path, err)
	}
	size := st.Size()
	if size == 0 {
		_ = f.Close()
		return &File{f: nil, data: nil}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("mmapfile: mmap %s: %w", path, err)
	}

	if err := unix.Madvise(data, syscall.MADV_RANDOM); err != nil {
		_ = unix.Munmap(data)
		_ = f.Close()
		return nil, fmt.Errorf("mmapfile: madvise %s: %w", path, err)
	}

	return &File{f: f, data: data}, nil
}

// Reader returns an io.Reader over the mapped contents, suitable for
// handing directly to rff.Deserialize.
func (mf *File) Reader() *bytes.Reader { return bytes.NewReader(mf.data) }

// Len returns the size of the mapped file in bytes.
func (mf *File) Len() int { return len(mf.data) }

// Close unmaps the file and releases the underlying descriptor.
func (mf *File) Close() error {
	if mf.f == nil {
		return nil
	}
	if err := unix.Munmap(mf.data); err != nil {
		_ = mf.f.Close()
		return fmt.Errorf("mmapfile: munmap: %w", err)
	}
	return mf.f.Close()
}
