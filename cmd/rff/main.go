// Command rff converts delimited text files into compact Raw Flat File
// tables and inspects existing tables for structural consistency.
package main

import (
	"os"

	"github.com/flatfileio/rff/internal/cli"
	"github.com/flatfileio/rff/internal/logging"
)

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
	}

	rootCmd := cli.NewRootCommand(info)

	if err := rootCmd.Execute(); err != nil {
		logger := logging.Default()
		logger.Error("command failed", logging.FieldError, err)
		return 1
	}

	return 0
}
