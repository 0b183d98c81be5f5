package cli

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"github.com/charmbracelet/lipgloss"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/flatfileio/rff"
	"github.com/flatfileio/rff/internal/bitset"
	"github.com/flatfileio/rff/internal/mmapfile"
)

func newCheckCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "check <file.rff>",
		Short: "Deserialize an .rff file and verify its structural invariants",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runCheck(args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit a machine-readable JSON report")

	return cmd
}

type checkReport struct {
	Columns          int    `json:"columns"`
	Lines            int    `json:"lines"`
	ContentCount     int    `json:"contentCount"`
	Truncated        bool   `json:"truncated"`
	UnexpectedCells  int    `json:"unexpectedCells"`
	OverflowColumns  []int  `json:"overflowColumns"`
	ConsistencyError string `json:"consistencyError,omitempty"`
}

func runCheck(path string, asJSON bool) error {
	mf, err := mmapfile.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer mf.Close()

	result, err := rff.Deserialize(mf.Reader())
	if err != nil {
		return fmt.Errorf("deserializing %s: %w", path, err)
	}

	report := checkReport{
		Columns:         result.Columns(),
		Lines:           result.Lines(),
		ContentCount:    len(result.Content()),
		Truncated:       result.IsTruncated(),
		UnexpectedCells: len(result.UnexpectedCells()),
		OverflowColumns: overflowColumns(result),
	}

	if err := rff.ConsistencyCheck(result); err != nil {
		report.ConsistencyError = err.Error()
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(report)
	}

	printHumanReport(path, report, result)
	if report.ConsistencyError != "" {
		return fmt.Errorf("%s", report.ConsistencyError)
	}
	return nil
}

// overflowColumns returns, in ascending order, the distinct column
// indices that produced at least one unexpected cell. A bitset sized by
// the largest such index is used instead of a map.
func overflowColumns(r *rff.RawFlatFile) []int {
	columns := r.Columns()
	if columns == 0 {
		return nil
	}
	maxColumn := 0
	for _, c := range r.UnexpectedCells() {
		maxColumn = max(maxColumn, c.Column)
	}
	seen := bitset.New(maxColumn + 1)
	var out []int
	for _, c := range r.UnexpectedCells() {
		col := c.Column
		if !seen.IsSet(col) {
			seen.Set(col)
			out = append(out, col)
		}
	}
	slices.Sort(out)
	return out
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Bold(true)
)

func printHumanReport(path string, report checkReport, result *rff.RawFlatFile) {
	fmt.Println(titleStyle.Render(path))
	fmt.Printf("  columns: %d  lines: %d  content: %d\n", report.Columns, report.Lines, report.ContentCount)

	if report.Truncated {
		fmt.Println("  " + warnStyle.Render("truncated by configured limits"))
	}

	if report.UnexpectedCells > 0 {
		fmt.Println("  " + warnStyle.Render(fmt.Sprintf("%d unexpected cell(s) across columns %v", report.UnexpectedCells, report.OverflowColumns)))
		for i, c := range result.UnexpectedCells() {
			if i >= 5 {
				fmt.Printf("  ... and %d more\n", report.UnexpectedCells-5)
				break
			}
			preview, _, _ := bytes.Cut(c.Bytes, []byte{'\n'})
			fmt.Printf("    line %d, column %d: %q\n", c.Line, c.Column, preview)
		}
	}

	if report.ConsistencyError != "" {
		fmt.Println("  " + errStyle.Render(report.ConsistencyError))
	} else {
		fmt.Println("  " + okStyle.Render("consistent"))
	}
}
