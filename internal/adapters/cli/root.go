// Package cli implements the dotstated command-line surface: serve (a
// poll loop over the route catalog, logging each assembled snapshot) and
// snapshot (one-shot: resolve a single route and print its JSON
// snapshot), mirroring the teacher's cobra root-command-plus-subcommands
// layout in internal/adapters/cli.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

// NewRootCommand builds the root dotstated command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dotstated",
		Short: "Ferry dot-state snapshot assembler",
		Long: `dotstated assembles an internally consistent dot-state snapshot for a
ferry route by fusing live vessel telemetry with the day's schedule.

Examples:
  dotstated snapshot --route 5
  dotstated serve --interval 15s`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.yaml (default: search standard paths)")

	rootCmd.AddCommand(NewSnapshotCommand())
	rootCmd.AddCommand(NewServeCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
