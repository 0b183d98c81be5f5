package rff

import (
	"fmt"
	"io"

	"github.com/flatfileio/rff/internal/inputbuffer"
	"github.com/flatfileio/rff/internal/trie"
)

const (
	byteTab   = 0x09
	byteSemi  = 0x3B
	byteComma = 0x2C
	bytePipe  = 0x7C
	byteSpace = 0x20
	byteCR    = 0x0D
	byteLF    = 0x0A
	byteQuote = 0x22
)

// separatorCandidates is checked in priority order: the first candidate
// that appears at all on the first line wins.
var separatorCandidates = [...]byte{byteTab, byteSemi, byteComma, bytePipe, byteSpace}

// guessSeparator skips leading newline/space bytes, then counts candidate
// separator occurrences on the first logical line and returns the
// highest-priority candidate that appears, along with the resulting
// column count. If none appear, it falls back to tab with one column.
func guessSeparator(buf *inputbuffer.Buffer) (separator byte, columns int) {
	for i := buf.Start; i < buf.End; i++ {
		b := buf.Bytes[i]
		if b == byteLF || b == byteCR || b == byteSpace {
			continue
		}
		buf.Start = i
		break
	}

	var counts [len(separatorCandidates)]int
	for i := buf.Start; i < buf.End; i++ {
		b := buf.Bytes[i]
		if b == byteLF || b == byteCR {
			break
		}
		for c, candidate := range separatorCandidates {
			if candidate == b {
				counts[c]++
			}
		}
	}

	for c, count := range counts {
		if count > 0 {
			return separatorCandidates[c], count + 1
		}
	}
	return byteTab, 1
}

// parser holds the mutable state accumulated while building a
// RawFlatFile's cell matrix. It is used once per Parse call and discarded.
type parser struct {
	tr                       *trie.Trie
	columns                  int
	cells                    []uint32
	unexpectedCells          []UnexpectedCell
	lineSize                 int
	emptyCellsSinceLineStart int
}

// extractCell truncates to the maximum cell length, strips quoting and
// trims spaces, then hands the result to the trie and folds it into the
// cell matrix, deferring runs of empty leading cells until a non-empty
// cell (or end of line) forces them to be flushed. The length cap is
// applied before quote processing so a pathological unterminated quote
// can never force the collapse loop below to scan an unbounded run.
func (p *parser) extractCell(source []byte, nQuotes int) {
	if len(source) > maximalValueLength {
		source = source[:maximalValueLength]
	}

	start, end := 0, len(source)

	if nQuotes > 0 && end > start && source[end-1] == byteQuote {
		start++
		end--

		if nQuotes > 1 {
			j := start
			for source[j] != byteQuote {
				j++
			}
			j++
			for i := j + 1; i < end; i++ {
				source[j] = source[i]
				if source[i] == byteQuote {
					i++
				}
				j++
			}
			end = j
		}
	}

	for start < end && source[start] == byteSpace {
		start++
	}
	for start < end && source[end-1] == byteSpace {
		end--
	}

	value := source[start:end]

	if len(value) == 0 {
		if p.lineSize == 0 {
			p.emptyCellsSinceLineStart++
		} else {
			if p.lineSize < p.columns {
				p.cells = append(p.cells, 0)
			}
			p.lineSize++
		}
		return
	}

	for p.emptyCellsSinceLineStart > 0 {
		if p.lineSize < p.columns {
			p.cells = append(p.cells, 0)
		}
		p.lineSize++
		p.emptyCellsSinceLineStart--
	}

	// Only cells that land in the matrix are given an identifier, so that
	// identifiers keep appearing in cells in first-use order.
	if p.lineSize < p.columns {
		p.cells = append(p.cells, p.tr.Hash(value))
	} else {
		p.unexpectedCells = append(p.unexpectedCells, UnexpectedCell{
			Line:   len(p.cells)/p.columns - 1,
			Column: p.lineSize,
			Bytes:  append([]byte(nil), value...),
		})
	}
	p.lineSize++
}

// endLine pads the current line to the full column count, or discards it
// entirely if it consisted only of empty cells.
func (p *parser) endLine() {
	if p.lineSize > 0 {
		for p.lineSize < p.columns {
			p.cells = append(p.cells, 0)
			p.lineSize++
		}
	}
	p.lineSize = 0
	p.emptyCellsSinceLineStart = 0
}

// Parse reads a delimited text stream and builds its compact
// representation. The separator is guessed from the first line, and a
// UTF-8 or UTF-16 byte-order mark selects the input encoding.
func Parse(src io.Reader, opts ...Option) (*RawFlatFile, error) {
	options := defaultParserOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if err := options.validate(); err != nil {
		return nil, err
	}

	buf, err := inputbuffer.New(src, options.readBufferSize)
	if err != nil {
		return nil, fmt.Errorf("rff: opening input: %w", err)
	}

	guessed, columns := guessSeparator(buf)
	spaceSeparatedHeaders := guessed == byteSpace
	fieldSeparator := guessed
	if spaceSeparatedHeaders {
		fieldSeparator = byteTab
	}
	activeSeparator := guessed

	options.logger.Debug("detected layout",
		"separator", string(guessed),
		"columns", columns,
		"spaceSeparatedHeaders", spaceSeparatedHeaders,
		"encoding", buf.FileEncoding().String(),
	)

	p := &parser{tr: trie.New(), columns: columns}

	maxCellCountFromLines := saturatingMul(columns, saturatingAdd(options.maxLineCount, 1))
	maxCellCount := saturatingAdd(options.maxCellCount, columns)
	if maxCellCountFromLines < maxCellCount {
		maxCellCount = maxCellCountFromLines
	}

	for (!buf.AtEndOfStream() || buf.Length() > 0) && len(p.cells) < maxCellCount {
		if err := scanOneCell(buf, p, &activeSeparator, fieldSeparator); err != nil {
			return nil, fmt.Errorf("rff: parsing: %w", err)
		}
	}

	p.endLine()

	if len(p.cells) == 0 {
		columns = 0
	}

	isTruncated := len(p.cells) >= maxCellCount

	content := p.tr.Release()

	options.logger.Debug("parse complete", "cells", len(p.cells), "content", len(content), "truncated", isTruncated)
	if isTruncated {
		options.logger.Warn("input truncated by configured limits")
	}

	return &RawFlatFile{
		columns:               uint16(columns),
		cells:                 p.cells,
		content:               content,
		separator:             guessed,
		spaceSeparatedHeaders: spaceSeparatedHeaders,
		fileEncoding:          encodingFromBuffer(buf.FileEncoding()),
		unexpectedCells:       p.unexpectedCells,
		isTruncated:           isTruncated,
	}, nil
}

// scanOneCell scans forward from buf.Start looking for a cell terminator,
// refilling the buffer as needed, and dispatches the extracted cell (and,
// on a line terminator, the end-of-line bookkeeping) to p.
func scanOneCell(buf *inputbuffer.Buffer, p *parser, activeSeparator *byte, fieldSeparator byte) error {
	for {
		inQuote := false
		nQuotes := 0

		for i := buf.Start; ; i++ {
			if i >= buf.End {
				if buf.IsFull() {
					p.extractCell(buf.Bytes[buf.Start:buf.End], nQuotes)
					buf.Start = buf.End
					if err := buf.Refill(); err != nil && err != io.EOF {
						return err
					}
					return nil
				}
				if err := buf.Refill(); err != nil && err != io.EOF {
					return err
				}
				break
			}

			b := buf.Bytes[i]

			if b == byteQuote {
				switch {
				case i == buf.Start:
					nQuotes++
					inQuote = true
				case inQuote:
					if i+1 < buf.End && buf.Bytes[i+1] == byteQuote {
						i++
						nQuotes++
					} else {
						inQuote = false
					}
				}
			}

			if inQuote {
				continue
			}

			if b == byteCR || b == byteLF {
				p.extractCell(buf.Bytes[buf.Start:i], nQuotes)
				p.endLine()
				*activeSeparator = fieldSeparator
				buf.Start = i + 1
				return nil
			}

			if b == *activeSeparator {
				p.extractCell(buf.Bytes[buf.Start:i], nQuotes)
				buf.Start = i + 1
				return nil
			}
		}

		if buf.AtEndOfStream() && buf.Length() == 0 {
			return nil
		}
	}
}
