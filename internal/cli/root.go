// Package cli provides the Cobra command structure for the rff binary.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/flatfileio/rff/internal/logging"
)

// BuildInfo holds build-time version information, set by the linker.
type BuildInfo struct {
	Version string
	Commit  string
}

// NewRootCommand builds the root rff command with all subcommands wired
// in.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "rff",
		Short: "Convert and inspect compact Raw Flat File tables",
		Long: `rff converts delimited text files (TSV, CSV, and similar) into a
compact, content-addressed binary representation, and can inspect
existing .rff files for structural consistency.`,
		Version: info.Version,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newCheckCommand())

	return rootCmd
}
