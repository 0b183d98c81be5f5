// Package rff parses delimited text files into a compact, content-addressed
// in-memory representation — a Raw Flat File — and serializes that
// representation to and from a binary format.
//
// A RawFlatFile is built in one shot by Parse or Deserialize. Once
// returned, it is immutable and safe for concurrent reads; nothing in this
// package mutates a RawFlatFile after construction.
package rff

import "github.com/flatfileio/rff/internal/inputbuffer"

// Encoding identifies the byte encoding detected at the start of a parsed
// source. It mirrors inputbuffer.Encoding without exposing that internal
// package in this package's public API.
type Encoding int

const (
	EncodingUnknown Encoding = iota
	EncodingUTF8BOM
	EncodingUTF16LE
	EncodingUTF16BE
)

func encodingFromBuffer(e inputbuffer.Encoding) Encoding {
	switch e {
	case inputbuffer.EncodingUTF8BOM:
		return EncodingUTF8BOM
	case inputbuffer.EncodingUTF16LE:
		return EncodingUTF16LE
	case inputbuffer.EncodingUTF16BE:
		return EncodingUTF16BE
	default:
		return EncodingUnknown
	}
}

// UnexpectedCell records a non-empty cell found beyond a row's declared
// column count. Diagnostic text formatting is a concern of callers, not of
// this type.
type UnexpectedCell struct {
	Line       int
	Column     int
	Bytes      []byte
	ColumnName string
}

// RawFlatFile is the compact, content-addressed representation of a
// parsed delimited text file. The zero value is not meaningful; obtain
// one from Parse, Deserialize, or NewRawFlatFile.
type RawFlatFile struct {
	columns               uint16
	cells                 []uint32
	content               [][]byte
	separator             byte
	spaceSeparatedHeaders bool
	fileEncoding          Encoding
	unexpectedCells       []UnexpectedCell
	isTruncated           bool
}

// NewRawFlatFile constructs a RawFlatFile directly from its components,
// without running the parser. Callers that build a RawFlatFile this way
// are responsible for calling ConsistencyCheck if they need the §3
// invariants verified; construction itself performs no validation.
func NewRawFlatFile(columns uint16, cells []uint32, content [][]byte) *RawFlatFile {
	return &RawFlatFile{
		columns: columns,
		cells:   cells,
		content: content,
	}
}

// Columns returns the number of columns per row.
func (r *RawFlatFile) Columns() int { return int(r.columns) }

// Lines returns the number of data rows, excluding the header row, or 0
// if the file has no rows at all.
func (r *RawFlatFile) Lines() int {
	if r.columns == 0 {
		return 0
	}
	rows := len(r.cells) / int(r.columns)
	if rows == 0 {
		return 0
	}
	return rows - 1
}

// Item returns the bytes stored at the given data line (0 is the first
// line after the header) and column.
func (r *RawFlatFile) Item(line, column int) []byte {
	row := line + 1
	idx := row*int(r.columns) + column
	return r.content[r.cells[idx]]
}

// HeaderItem returns the bytes stored in the header row at column.
func (r *RawFlatFile) HeaderItem(column int) []byte {
	return r.content[r.cells[column]]
}

// Cells returns the flat cell-reference array. The returned slice must
// not be mutated.
func (r *RawFlatFile) Cells() []uint32 { return r.cells }

// Content returns the content dictionary. The returned slice must not be
// mutated.
func (r *RawFlatFile) Content() [][]byte { return r.content }

// Separator returns the separator guessed from the first line. When
// SpaceSeparatedHeaders is true this is a space, and the rows after the
// header were split on tabs. Deserialize does not store it and always
// sets a tab.
func (r *RawFlatFile) Separator() byte { return r.separator }

// SpaceSeparatedHeaders reports whether the header row was split on
// spaces while the remaining rows were split on tabs.
func (r *RawFlatFile) SpaceSeparatedHeaders() bool { return r.spaceSeparatedHeaders }

// FileEncoding returns the encoding detected at the start of the source.
func (r *RawFlatFile) FileEncoding() Encoding { return r.fileEncoding }

// UnexpectedCells returns diagnostic records for cells found beyond a
// row's declared column count.
func (r *RawFlatFile) UnexpectedCells() []UnexpectedCell { return r.unexpectedCells }

// IsTruncated reports whether parsing stopped early because of a
// configured limit.
func (r *RawFlatFile) IsTruncated() bool { return r.isTruncated }
