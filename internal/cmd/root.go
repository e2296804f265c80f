package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// Exit codes returned by the dupfind binary
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInterrupted = 130
)

// NewRootCommand creates and returns the root cobra command for dupfind
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dupfind",
		Short: "Find duplicate files in a directory tree",
		Long: `dupfind locates duplicate files by grouping them by size and,
optionally, confirming each group with a SHA-256 content hash.

Files are listed as "<duplicate> (<original>)" where the original is the
first file of its group in directory walk order. Results can also be
saved as plain text, CSV, JSON or a SQLite database.`,
		Example: `  dupfind -d ~/Pictures -p "*.jpg" --check-contents
  dupfind --min-filesize 10MB --exclude backup,.git --csv dups.csv
  dupfind -q --json dups.json`,
		Version: Version,
		Args:    cobra.NoArgs,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runScan,
	}

	addScanFlags(cmd)

	return cmd
}

// ExitCode maps the error returned by the root command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	default:
		return ExitFailure
	}
}
