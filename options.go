package rff

import (
	"fmt"
	"io"
	"log/slog"
	"math"
)

const (
	defaultReadBufferSize = 100 * 1024 * 1024
	minReadBufferSize     = 4096

	// maximalValueLength is the hard cap on the raw byte length of any
	// single cell, enforced before the cell ever reaches the trie.
	maximalValueLength = 4096
)

// Option configures a call to Parse.
type Option func(*parserOptions)

type parserOptions struct {
	maxLineCount   int
	maxCellCount   int
	readBufferSize int
	logger         *slog.Logger
}

func defaultParserOptions() parserOptions {
	return parserOptions{
		maxLineCount:   math.MaxInt,
		maxCellCount:   math.MaxInt,
		readBufferSize: defaultReadBufferSize,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithMaxLineCount limits the number of non-header lines Parse will
// accept before truncating. n must be non-negative. Without this option,
// the line count is unbounded.
func WithMaxLineCount(n int) Option {
	return func(o *parserOptions) {
		o.maxLineCount = n
	}
}

// WithMaxCellCount limits the number of non-header cells Parse will
// accept before truncating. n must be non-negative. Without this option,
// the cell count is unbounded.
func WithMaxCellCount(n int) Option {
	return func(o *parserOptions) {
		o.maxCellCount = n
	}
}

// WithReadBufferSize sets the size, in bytes, of the input window Parse
// reads through. n must be at least 4096. When MaxLineCount is also set,
// a reasonable size is roughly 2KiB plus 1KiB per expected line.
func WithReadBufferSize(n int) Option {
	return func(o *parserOptions) {
		o.readBufferSize = n
	}
}

// WithLogger sets a logger Parse uses for diagnostic output. Without this
// option, Parse produces no log output at all.
func WithLogger(logger *slog.Logger) Option {
	return func(o *parserOptions) {
		o.logger = logger
	}
}

func (o parserOptions) validate() error {
	if o.maxLineCount < 0 {
		return fmt.Errorf("MaxLineCount must be non-negative, got %d: %w", o.maxLineCount, ErrBadOption)
	}
	if o.maxCellCount < 0 {
		return fmt.Errorf("MaxCellCount must be non-negative, got %d: %w", o.maxCellCount, ErrBadOption)
	}
	if o.readBufferSize < minReadBufferSize {
		return fmt.Errorf("ReadBufferSize must be >= %d, got %d: %w", minReadBufferSize, o.readBufferSize, ErrBadOption)
	}
	return nil
}

func saturatingAdd(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

func saturatingMul(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxInt/b {
		return math.MaxInt
	}
	return a * b
}
