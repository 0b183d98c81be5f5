// Package trie implements a compressed trie that assigns each distinct
// byte sequence handed to it a strictly monotonically increasing integer
// identifier, returning the existing identifier on repeat insertions.
//
// Nodes live in a single flat arena ([]uint32) rather than as individually
// allocated structs: a node occupies a fixed run of fields followed by a
// per-depth hash table of children, and all "pointers" between nodes are
// just arena offsets. This keeps the total allocation count close to
// O(N log N) for N distinct insertions, at the cost of addressing nodes
// by integer offset instead of by pointer.
package trie

import "github.com/flatfileio/rff/internal/zero"

// Field offsets within a node's run of arena cells.
const (
	fieldFirst       = 0
	fieldBuffer      = 1
	fieldStart       = 2
	fieldEnd         = 3
	fieldReference   = 4
	fieldNextSibling = 5
	fieldChildren    = 6
)

// hashSizeAtLength returns the size of a node's Children hash table given
// the depth, in bytes from the root, at which the node sits. The table
// shrinks exponentially with depth: shallow, high-fanout levels get O(1)
// child lookup, while deep, sparse levels fall back to sibling-list
// traversal.
func hashSizeAtLength(length int) int {
	switch {
	case length < 2:
		return 256
	case length < 7:
		return 256 >> (length - 2)
	default:
		return 1
	}
}

// Trie assigns integer identifiers to byte sequences. The zero value is
// not usable; construct with New.
type Trie struct {
	nodes  []uint32
	values [][]byte
}

// New returns an empty Trie whose identifier 0 is reserved for the empty
// byte sequence.
func New() *Trie {
	t := &Trie{values: [][]byte{{}}}
	t.nodes = make([]uint32, fieldChildren+hashSizeAtLength(0))
	return t
}

// getFirst packs up to the first 4 bytes of b, starting at pos, into a
// little-endian integer so the hot comparison path in Hash can avoid
// touching the backing buffer for short edges.
func getFirst(b []byte, pos int) uint32 {
	result := uint32(b[pos])
	for i := 1; i < 4 && pos+i < len(b); i++ {
		result += uint32(b[pos+i]) << uint(i*8)
	}
	return result
}

// Hash returns the identifier for b, allocating a new one on first sight.
// Hash(nil) and Hash([]byte{}) both return 0.
func (t *Trie) Hash(b []byte) uint32 {
	if len(b) == 0 {
		return 0
	}

	// Initial values match the always-zero contents of the root node.
	bEnd, bStart, bPos := 0, 0, 0
	var bFirstBytes uint32
	var bBytes []byte

	nodeI, nodeR := 0, 0

	for iPos := 0; iPos < len(b); iPos++ {
		iByte := uint32(b[iPos])

		if bPos == bEnd {
			hashSize := hashSizeAtLength(iPos)
			childR := nodeI + fieldChildren + int(iByte)%hashSize
			childI := int(t.nodes[childR])

			for childI != 0 {
				bFirstBytes = t.nodes[childI+fieldFirst]
				if bFirstBytes%256 == iByte {
					break
				}
				childR = childI + fieldNextSibling
				childI = int(t.nodes[childR])
			}

			if childI == 0 {
				return t.addNewChild(childR, b, iPos)
			}

			nodeI = childI
			nodeR = childR
			bStart = int(t.nodes[nodeI+fieldStart])
			bEnd = int(t.nodes[nodeI+fieldEnd])
			// The sibling search already matched the first byte.
			bPos = bStart + 1
			continue
		}

		var bByte uint32
		bOffset := bPos - bStart
		if bOffset < 4 {
			bByte = (bFirstBytes >> uint(bOffset*8)) & 0xFF
		} else {
			if bOffset == 4 {
				bBytes = t.values[t.nodes[nodeI+fieldBuffer]]
			}
			bByte = uint32(bBytes[bPos])
		}

		if bByte == iByte {
			bPos++
			continue
		}

		return t.addNewNode(nodeI, nodeR, b, iPos, bPos)
	}

	if bEnd > bPos {
		return t.addNewEnd(nodeI, nodeR, b, bPos)
	}

	reference := t.nodes[nodeI+fieldReference]
	if reference == 0 {
		ref := t.addNewReference(b)
		t.nodes[nodeI+fieldReference] = ref
		return ref
	}
	return reference
}

// addNewChild appends a fresh leaf node for the edge [iPos,len(b)), wiring
// it into the sibling list previously rooted at childR. The reference
// buffer stores the whole of b, not just the edge, since the node's
// Start/End fields index into it from byte 0.
func (t *Trie) addNewChild(childR int, b []byte, iPos int) uint32 {
	reference := t.addNewReference(b)
	hashSize := hashSizeAtLength(len(b))

	childI := len(t.nodes)
	t.nodes = append(t.nodes,
		getFirst(b, iPos),  // First
		reference,          // Buffer
		uint32(iPos),       // Start
		uint32(len(b)),     // End
		reference,          // Reference
		t.nodes[childR],    // NextSibling
	)
	t.nodes = append(t.nodes, make([]uint32, hashSize)...)
	t.nodes[childR] = uint32(childI)

	return reference
}

// addNewNode splits nodeI's edge at bPos, inserting a middle node that
// becomes the new parent of both nodeI and a fresh child for b[iPos:].
func (t *Trie) addNewNode(nodeI, nodeR int, b []byte, iPos, bPos int) uint32 {
	bBytesI := t.nodes[nodeI+fieldBuffer]
	bBytes := t.values[bBytesI]

	midI := len(t.nodes)
	midHashSize := hashSizeAtLength(iPos)

	t.nodes = append(t.nodes,
		t.nodes[nodeI+fieldFirst],       // First
		bBytesI,                         // Buffer
		t.nodes[nodeI+fieldStart],       // Start
		uint32(bPos),                    // End
		0,                                // Reference
		t.nodes[nodeI+fieldNextSibling], // NextSibling
	)
	t.nodes = append(t.nodes, make([]uint32, midHashSize)...)
	t.nodes[midI+fieldChildren+int(bBytes[bPos])%midHashSize] = uint32(nodeI)

	t.nodes[nodeR] = uint32(midI)

	t.nodes[nodeI+fieldFirst] = getFirst(bBytes, bPos)
	t.nodes[nodeI+fieldStart] = uint32(bPos)
	t.nodes[nodeI+fieldNextSibling] = 0

	childR := midI + fieldChildren + int(b[iPos])%midHashSize
	return t.addNewChild(childR, b, iPos)
}

// addNewEnd splits nodeI's edge at bPos because the input ended mid-edge,
// inserting a middle node that owns the new reference.
func (t *Trie) addNewEnd(nodeI, nodeR int, b []byte, bPos int) uint32 {
	reference := t.addNewReference(b)
	midHashSize := hashSizeAtLength(len(b))

	bBytesI := t.nodes[nodeI+fieldBuffer]
	bBytes := t.values[bBytesI]

	midI := len(t.nodes)
	t.nodes = append(t.nodes,
		t.nodes[nodeI+fieldFirst],       // First
		bBytesI,                         // Buffer
		t.nodes[nodeI+fieldStart],       // Start
		uint32(bPos),                    // End
		reference,                        // Reference
		t.nodes[nodeI+fieldNextSibling], // NextSibling
	)
	t.nodes = append(t.nodes, make([]uint32, midHashSize)...)
	t.nodes[midI+fieldChildren+int(bBytes[bPos])%midHashSize] = uint32(nodeI)

	t.nodes[nodeR] = uint32(midI)

	t.nodes[nodeI+fieldFirst] = getFirst(bBytes, bPos)
	t.nodes[nodeI+fieldStart] = uint32(bPos)
	t.nodes[nodeI+fieldNextSibling] = 0

	return reference
}

// addNewReference copies b into a freshly owned slice appended to values
// and returns its index.
func (t *Trie) addNewReference(b []byte) uint32 {
	cp := make([]byte, len(b))
	copy(cp, b)
	ref := uint32(len(t.values))
	t.values = append(t.values, cp)
	return ref
}

// Values returns the dictionary built so far. The returned slice must not
// be retained past a subsequent call to Release.
func (t *Trie) Values() [][]byte { return t.values }

// Release hands ownership of the dictionary to the caller and drops the
// trie's internal arena, which is of no further use once parsing ends.
func (t *Trie) Release() [][]byte {
	v := t.values
	t.values = nil
	zero.U32(t.nodes)
	t.nodes = nil
	return v
}
