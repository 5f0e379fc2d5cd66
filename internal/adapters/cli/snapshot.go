package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abw750/ferryAPI3/internal/infrastructure/config"
)

// NewSnapshotCommand builds the one-shot "snapshot" subcommand: resolve a
// single route and print its assembled snapshot as JSON.
func NewSnapshotCommand() *cobra.Command {
	var routeID int

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Assemble and print one route's dot-state snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			asm, err := buildAssembler(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), cfg.Upstream.Timeout*3)
			defer cancel()

			snap, err := asm.BuildSnapshot(ctx, routeID)
			if err != nil {
				return fmt.Errorf("building snapshot: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		},
	}

	cmd.Flags().IntVar(&routeID, "route", 0, "Route ID to assemble (required)")
	cmd.MarkFlagRequired("route")

	return cmd
}
