package rff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func parseString(t *testing.T, s string, opts ...Option) *RawFlatFile {
	t.Helper()
	opts = append([]Option{WithReadBufferSize(minReadBufferSize)}, opts...)
	r, err := Parse(strings.NewReader(s), opts...)
	require.NoError(t, err)
	return r
}

func TestParseSingleCellFile(t *testing.T) {
	r := parseString(t, "hello")
	require.Equal(t, 1, r.Columns())
	require.Equal(t, []uint32{1}, r.Cells())
	require.Equal(t, [][]byte{{}, []byte("hello")}, r.Content())
}

func TestParseTwoIdenticalLines(t *testing.T) {
	r := parseString(t, "a\tb\na\tb\n")
	require.Equal(t, 2, r.Columns())
	require.Equal(t, []uint32{1, 2, 1, 2}, r.Cells())
	require.Equal(t, [][]byte{{}, []byte("a"), []byte("b")}, r.Content())
}

func TestParseQuotedCellWithEscapedQuote(t *testing.T) {
	// The separator guess is quote-blind (it counts raw comma bytes on the
	// first line, including the one inside the quoted cell), so the
	// declared column count here is 3, not the 2 logical cells the quoted
	// row actually contains; the third, padding cell is empty.
	r := parseString(t, `"a,""b",c`+"\n")
	require.Equal(t, 3, r.Columns())
	require.Equal(t, `a,"b`, string(r.HeaderItem(0)))
	require.Equal(t, "c", string(r.HeaderItem(1)))
	require.Equal(t, "", string(r.HeaderItem(2)))
}

func TestParseSparseColumns(t *testing.T) {
	r := parseString(t, "a\tb\tc\n\t\tz\n")
	require.Equal(t, 3, r.Columns())
	require.Equal(t, []uint32{1, 2, 3, 0, 0, 4}, r.Cells())
	require.Equal(t, [][]byte{{}, []byte("a"), []byte("b"), []byte("c"), []byte("z")}, r.Content())
}

func TestParseExtraCellBeyondColumnCount(t *testing.T) {
	r := parseString(t, "a\tb\nc\td\te\n")
	require.Equal(t, 2, r.Columns())
	require.Len(t, r.UnexpectedCells(), 1)
	uc := r.UnexpectedCells()[0]
	require.Equal(t, 1, uc.Line)
	require.Equal(t, 2, uc.Column)
	require.Equal(t, "e", string(uc.Bytes))
}

func TestParseUTF16LEBOMHeader(t *testing.T) {
	input := []byte{0xFF, 0xFE, 'a', 0x00, '\t', 0x00, 'b', 0x00}
	r, err := Parse(strings.NewReader(string(input)), WithReadBufferSize(minReadBufferSize))
	require.NoError(t, err)
	require.Equal(t, 2, r.Columns())
	require.Equal(t, "a", string(r.HeaderItem(0)))
	require.Equal(t, "b", string(r.HeaderItem(1)))
	require.Equal(t, EncodingUTF16LE, r.FileEncoding())
}

func TestParseEmptyInput(t *testing.T) {
	r := parseString(t, "")
	require.Equal(t, 0, r.Columns())
	require.Empty(t, r.Cells())
	require.Equal(t, [][]byte{{}}, r.Content())
	require.Equal(t, 0, r.Lines())
}

func TestParseWhitespaceOnlyInput(t *testing.T) {
	r := parseString(t, "\n\n   \n")
	require.Equal(t, 0, r.Columns())
	require.Empty(t, r.Cells())
	require.Equal(t, 0, r.Lines())
}

func TestParseNoFinalNewlineStillEmitsLastLine(t *testing.T) {
	r := parseString(t, "a\tb\nc\td")
	require.Equal(t, 2, r.Columns())
	require.Equal(t, 1, r.Lines())
	require.Equal(t, "c", string(r.Item(0, 0)))
	require.Equal(t, "d", string(r.Item(0, 1)))
}

func TestParseSpaceSeparatedHeaderSwitchesToTabForBody(t *testing.T) {
	r := parseString(t, "a b c\nd\te\tf\n")
	require.True(t, r.SpaceSeparatedHeaders())
	require.Equal(t, 3, r.Columns())
	require.Equal(t, "a", string(r.HeaderItem(0)))
	require.Equal(t, "b", string(r.HeaderItem(1)))
	require.Equal(t, "c", string(r.HeaderItem(2)))
	require.Equal(t, "d", string(r.Item(0, 0)))
	require.Equal(t, "e", string(r.Item(0, 1)))
	require.Equal(t, "f", string(r.Item(0, 2)))
}

func TestParseCellLongerThanMaximalValueLengthIsTruncated(t *testing.T) {
	long := strings.Repeat("x", maximalValueLength+100)
	r := parseString(t, long, WithReadBufferSize(maximalValueLength*4))
	require.Equal(t, maximalValueLength, len(r.HeaderItem(0)))
}

func TestParseRespectsMaxLineCount(t *testing.T) {
	r := parseString(t, "a\tb\nc\td\ne\tf\n", WithMaxLineCount(1))
	require.True(t, r.IsTruncated())
	require.LessOrEqual(t, r.Lines(), 1)
}

func TestParseRejectsNegativeMaxLineCount(t *testing.T) {
	_, err := Parse(strings.NewReader("a"), WithMaxLineCount(-1))
	require.ErrorIs(t, err, ErrBadOption)
}

func TestParseRejectsTooSmallReadBufferSize(t *testing.T) {
	_, err := Parse(strings.NewReader("a"), WithReadBufferSize(1))
	require.ErrorIs(t, err, ErrBadOption)
}
