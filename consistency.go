package rff

import (
	"bytes"
	"fmt"

	farm "github.com/dgryski/go-farm"
)

// ConsistencyCheck verifies that r satisfies the structural invariants a
// well-formed RawFlatFile must hold. Parse always returns a value that
// passes this check; it exists for values built with NewRawFlatFile or
// read back with Deserialize, neither of which validates its input.
func ConsistencyCheck(r *RawFlatFile) error {
	if len(r.content) == 0 || len(r.content[0]) != 0 {
		return fmt.Errorf("content[0] must be the empty byte slice: %w", ErrInconsistent)
	}

	if r.columns == 0 {
		if len(r.cells) > 0 {
			return fmt.Errorf("no cells allowed when columns = 0: %w", ErrInconsistent)
		}
		if len(r.content) > 1 {
			return fmt.Errorf("no content allowed when columns = 0: %w", ErrInconsistent)
		}
		return nil
	}

	if len(r.cells)%int(r.columns) != 0 {
		return fmt.Errorf("len(cells) = %d is not a multiple of columns = %d: %w", len(r.cells), r.columns, ErrInconsistent)
	}

	nextNew := uint32(1)
	for i, cell := range r.cells {
		if cell > nextNew {
			return fmt.Errorf("cells[%d] = %d but %d has not appeared yet: %w", i, cell, nextNew, ErrInconsistent)
		}
		if cell == nextNew {
			if int(cell) >= len(r.content) {
				return fmt.Errorf("cells[%d] = %d >= len(content) = %d: %w", i, cell, len(r.content), ErrInconsistent)
			}
			nextNew++
		}
	}

	if err := checkContentDistinct(r.content); err != nil {
		return err
	}

	return nil
}

// checkContentDistinct verifies that no two entries in content (besides
// the reserved empty entry at index 0) are byte-for-byte equal, using a
// farm hash to bucket candidates before falling back to an exact
// comparison, rather than an O(n^2) pairwise scan.
func checkContentDistinct(content [][]byte) error {
	buckets := make(map[uint64][]int, len(content))
	for i := 1; i < len(content); i++ {
		h := farm.Hash64(content[i])
		for _, j := range buckets[h] {
			if bytes.Equal(content[i], content[j]) {
				return fmt.Errorf("content[%d] and content[%d] are equal: %w", j, i, ErrInconsistent)
			}
		}
		buckets[h] = append(buckets[h], i)
	}
	return nil
}
