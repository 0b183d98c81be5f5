// Package reencode adapts a byte source in a detected 16-bit Unicode
// encoding into a reader that yields UTF-8 bytes, so the rest of the
// parsing pipeline never has to reason about encodings beyond UTF-8.
package reencode

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// UTF16 wraps src, whose bytes are encoded per endianness, with a
// transform.Reader that emits UTF-8. Unlike a hand-rolled byte counter,
// golang.org/x/text's transform pipeline never splits a multi-byte unit
// across reads, so there is no truncation hazard to guard against here.
func UTF16(src io.Reader, endianness unicode.Endianness, expectBOM bool) io.Reader {
	bomPolicy := unicode.IgnoreBOM
	if expectBOM {
		bomPolicy = unicode.ExpectBOM
	}
	enc := unicode.UTF16(endianness, bomPolicy)
	return transform.NewReader(src, enc.NewDecoder())
}
