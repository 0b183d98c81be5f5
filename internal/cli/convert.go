package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/flatfileio/rff"
	"github.com/flatfileio/rff/internal/logging"
)

func newConvertCommand() *cobra.Command {
	var outDir string
	var maxLineCount int
	var concurrency int

	cmd := &cobra.Command{
		Use:   "convert <file>...",
		Short: "Convert delimited text files into .rff files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runConvert(args, outDir, maxLineCount, concurrency)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory to write .rff files into")
	cmd.Flags().IntVar(&maxLineCount, "max-lines", -1, "truncate input after this many data lines (-1 for unbounded)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "number of files to convert concurrently")

	return cmd
}

// runConvert parses each input file independently and writes its .rff
// output, bounding concurrency with an errgroup the way independent,
// state-isolated parses are meant to run: one Parser/Trie/Buffer per
// file, no sharing across goroutines.
func runConvert(inputs []string, outDir string, maxLineCount, concurrency int) error {
	logger := logging.Default()

	if concurrency < 1 {
		concurrency = 1
	}

	g := new(errgroup.Group)
	g.SetLimit(concurrency)

	for _, input := range inputs {
		input := input
		g.Go(func() error {
			return convertOne(input, outDir, maxLineCount, logger)
		})
	}

	return g.Wait()
}

func convertOne(input, outDir string, maxLineCount int, logger *log.Logger) error {
	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("opening %s: %w", input, err)
	}
	defer f.Close()

	opts := []rff.Option{}
	if maxLineCount >= 0 {
		opts = append(opts, rff.WithMaxLineCount(maxLineCount))
	}

	result, err := rff.Parse(f, opts...)
	if err != nil {
		logger.Error("parse failed", "file", input, "err", err)
		return fmt.Errorf("parsing %s: %w", input, err)
	}

	outPath := filepath.Join(outDir, baseNameWithoutExt(input)+".rff")
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer out.Close()

	if err := rff.Serialize(out, result); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	logger.Info("converted", "file", input, "out", outPath, "lines", result.Lines(), "columns", result.Columns())
	return nil
}

func baseNameWithoutExt(path string) string {
	base := filepath.Base(path)
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		return base[:i]
	}
	return base
}
