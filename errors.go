package rff

import "errors"

// Sentinel errors returned (always wrapped with additional context via
// fmt.Errorf's %w) by the package's exported functions. Callers should
// compare against these with errors.Is.
var (
	// ErrBadVersion is returned by Deserialize when the version byte at
	// the start of a stream does not match a version this package knows
	// how to read.
	ErrBadVersion = errors.New("rff: unrecognized format version")

	// ErrInconsistent is returned by ConsistencyCheck when a RawFlatFile
	// violates one of its structural invariants.
	ErrInconsistent = errors.New("rff: inconsistent raw flat file")

	// ErrBadOption is returned by Parse when a supplied Option carries
	// an invalid value.
	ErrBadOption = errors.New("rff: invalid parser option")

	// ErrShortRead is returned by Deserialize when the underlying reader
	// yields fewer bytes than the format requires at some point.
	ErrShortRead = errors.New("rff: short read while deserializing")
)
