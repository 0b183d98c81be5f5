package varint

import (
	"bufio"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendReadRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 127, 128, 16383, 16384, 1 << 20, 1<<32 - 1}
	for _, v := range cases {
		buf := Append(nil, v)
		got, err := Read(bufio.NewReader(bytes.NewReader(buf)))
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestLenMatchesAppend(t *testing.T) {
	cases := []uint32{0, 1, 127, 128, 16383, 16384, 1<<21 - 1, 1 << 21}
	for _, v := range cases {
		require.Equal(t, len(Append(nil, v)), Len(v))
	}
}

func TestReadEmptyIsEOF(t *testing.T) {
	_, err := Read(bufio.NewReader(bytes.NewReader(nil)))
	require.ErrorIs(t, err, io.EOF)
}

func TestReadTruncatedIsUnexpectedEOF(t *testing.T) {
	buf := Append(nil, uint64(1<<20))
	_, err := Read(bufio.NewReader(bytes.NewReader(buf[:1])))
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
