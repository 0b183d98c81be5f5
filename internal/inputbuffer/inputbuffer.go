// Package inputbuffer implements a refillable byte window over an input
// source, with BOM sniffing and transparent UTF-16 re-encoding. The window
// [Start, End) is caller-mutable: the parser advances Start as it consumes
// bytes and calls Refill when it needs more.
package inputbuffer

import (
	"bufio"
	"io"

	"golang.org/x/text/encoding/unicode"

	"github.com/flatfileio/rff/internal/reencode"
)

// Encoding identifies the byte encoding detected at the start of the source.
type Encoding int

const (
	EncodingUnknown Encoding = iota
	EncodingUTF8BOM
	EncodingUTF16LE
	EncodingUTF16BE
)

func (e Encoding) String() string {
	switch e {
	case EncodingUTF8BOM:
		return "utf-8 (bom)"
	case EncodingUTF16LE:
		return "utf-16le"
	case EncodingUTF16BE:
		return "utf-16be"
	default:
		return "unknown"
	}
}

const minSize = 4

// Buffer is a fixed-capacity byte window refilled on demand from src.
type Buffer struct {
	Bytes []byte
	Start int
	End   int

	src      io.Reader
	atEOF    bool
	encoding Encoding
}

// New sniffs src for a byte-order mark, wraps it in a UTF-16 decoder if
// needed, and returns a Buffer of the requested capacity with its window
// already primed with the first read.
func New(src io.Reader, size int) (*Buffer, error) {
	if size < minSize {
		size = minSize
	}

	br := bufio.NewReaderSize(src, size)
	peek, _ := br.Peek(3)

	b := &Buffer{Bytes: make([]byte, size)}

	switch {
	case len(peek) >= 2 && peek[0] == 0xFF && peek[1] == 0xFE:
		_, _ = br.Discard(2)
		b.encoding = EncodingUTF16LE
		b.src = reencode.UTF16(br, unicode.LittleEndian, false)
	case len(peek) >= 2 && peek[0] == 0xFE && peek[1] == 0xFF:
		_, _ = br.Discard(2)
		b.encoding = EncodingUTF16BE
		b.src = reencode.UTF16(br, unicode.BigEndian, false)
	case len(peek) >= 3 && peek[0] == 0xEF && peek[1] == 0xBB && peek[2] == 0xBF:
		_, _ = br.Discard(3)
		b.encoding = EncodingUTF8BOM
		b.src = br
	default:
		b.encoding = EncodingUnknown
		b.src = br
	}

	if err := b.Refill(); err != nil && err != io.EOF {
		return nil, err
	}
	return b, nil
}

// FileEncoding returns the encoding detected at construction time.
func (b *Buffer) FileEncoding() Encoding { return b.encoding }

// Length returns the number of unconsumed bytes in the window.
func (b *Buffer) Length() int { return b.End - b.Start }

// AtEndOfStream reports whether the underlying source is exhausted.
func (b *Buffer) AtEndOfStream() bool { return b.atEOF }

// IsFull reports whether Refill can no longer add any bytes to the
// window, either because the backing array is already full or because
// the source is exhausted.
func (b *Buffer) IsFull() bool { return b.Length() == len(b.Bytes) || b.atEOF }

// Refill preserves Bytes[Start:End], compacts it to the front of the
// array, and reads as many additional bytes as are available.
func (b *Buffer) Refill() error {
	if b.Start > 0 {
		n := copy(b.Bytes, b.Bytes[b.Start:b.End])
		b.End = n
		b.Start = 0
	}
	if b.atEOF {
		return io.EOF
	}
	for b.End < len(b.Bytes) {
		n, err := b.src.Read(b.Bytes[b.End:])
		b.End += n
		if err != nil {
			if err == io.EOF {
				b.atEOF = true
				return nil
			}
			return err
		}
		if n == 0 {
			break
		}
	}
	return nil
}
