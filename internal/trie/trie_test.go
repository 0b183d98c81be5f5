package trie

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmptyIsZero(t *testing.T) {
	tr := New()
	require.EqualValues(t, 0, tr.Hash(nil))
	require.EqualValues(t, 0, tr.Hash([]byte{}))
}

func TestDistinctValuesGetDistinctIDs(t *testing.T) {
	tr := New()
	a := tr.Hash([]byte("alpha"))
	b := tr.Hash([]byte("beta"))
	require.NotEqual(t, a, b)
	require.EqualValues(t, []byte("alpha"), tr.Values()[a])
	require.EqualValues(t, []byte("beta"), tr.Values()[b])
}

func TestRepeatedValueReturnsSameID(t *testing.T) {
	tr := New()
	a := tr.Hash([]byte("repeat-me"))
	b := tr.Hash([]byte("repeat-me"))
	require.Equal(t, a, b)
}

func TestPrefixSharing(t *testing.T) {
	tr := New()
	abc := tr.Hash([]byte("ABC"))
	abd := tr.Hash([]byte("ABD"))
	ab := tr.Hash([]byte("AB"))
	require.NotEqual(t, abc, abd)
	require.NotEqual(t, abc, ab)
	require.EqualValues(t, []byte("ABC"), tr.Values()[abc])
	require.EqualValues(t, []byte("ABD"), tr.Values()[abd])
	require.EqualValues(t, []byte("AB"), tr.Values()[ab])
}

func TestIdentifiersAreFirstUseOrder(t *testing.T) {
	tr := New()
	seen := []uint32{}
	words := []string{"one", "two", "three", "two", "four", "one"}
	for _, w := range words {
		seen = append(seen, tr.Hash([]byte(w)))
	}
	require.Equal(t, []uint32{1, 2, 3, 2, 4, 1}, seen)
}

func TestLongSharedPrefixesForceEdgeSplits(t *testing.T) {
	tr := New()
	ids := map[string]uint32{}
	words := []string{
		"aaaaaaaaaaaaaaaaaaaaa",
		"aaaaaaaaaaaaaaaaaaaab",
		"aaaaaaaaaaaaaaaaaaaac",
		"aaaaaaaaaaaaaaaaaaaa",
	}
	for _, w := range words {
		ids[w] = tr.Hash([]byte(w))
	}
	require.Equal(t, ids["aaaaaaaaaaaaaaaaaaaaa"], ids["aaaaaaaaaaaaaaaaaaaaa"])
	require.NotEqual(t, ids["aaaaaaaaaaaaaaaaaaaaa"], ids["aaaaaaaaaaaaaaaaaaaab"])
	require.NotEqual(t, ids["aaaaaaaaaaaaaaaaaaaab"], ids["aaaaaaaaaaaaaaaaaaaac"])
	require.NotEqual(t, ids["aaaaaaaaaaaaaaaaaaaa"], ids["aaaaaaaaaaaaaaaaaaaaa"]+0) // sanity
}

func TestManyDistinctValuesRoundTrip(t *testing.T) {
	tr := New()
	n := 2000
	ids := make([]uint32, n)
	for i := 0; i < n; i++ {
		ids[i] = tr.Hash([]byte(fmt.Sprintf("key-%d-suffix", i)))
	}
	for i := 0; i < n; i++ {
		require.EqualValues(t, fmt.Sprintf("key-%d-suffix", i), tr.Values()[ids[i]])
	}
}

func TestReleaseDropsArenaKeepsValues(t *testing.T) {
	tr := New()
	id := tr.Hash([]byte("x"))
	values := tr.Release()
	require.EqualValues(t, []byte("x"), values[id])
}
