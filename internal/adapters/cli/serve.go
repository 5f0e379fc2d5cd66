package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abw750/ferryAPI3/internal/application/assembler"
	"github.com/abw750/ferryAPI3/internal/domain/route"
	"github.com/abw750/ferryAPI3/internal/infrastructure/config"
	"github.com/abw750/ferryAPI3/internal/infrastructure/logging"
)

// NewServeCommand builds the long-running "serve" subcommand: a poll loop
// that assembles every route in the catalog on a fixed interval, logging
// each outcome, until interrupted.
func NewServeCommand() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Continuously assemble snapshots for every configured route",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
			if err != nil {
				return fmt.Errorf("building logger: %w", err)
			}

			asm, err := buildAssembler(cfg)
			if err != nil {
				return err
			}

			catalog := route.DefaultCatalog()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Infow("dotstated serve starting", "interval", interval.String(), "routes", len(catalog.ListRoutes()))

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			pollAll(ctx, asm, catalog, log)
			for {
				select {
				case <-ctx.Done():
					log.Infow("dotstated serve stopping")
					return nil
				case <-ticker.C:
					pollAll(ctx, asm, catalog, log)
				}
			}
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 15*time.Second, "Poll interval between assembly rounds")

	return cmd
}

func pollAll(ctx context.Context, asm *assembler.Assembler, catalog *route.Catalog, log *zap.SugaredLogger) {
	for _, rt := range catalog.ListRoutes() {
		snap, err := asm.BuildSnapshot(ctx, rt.ID)
		if err != nil {
			log.Errorw("snapshot assembly failed", "route_id", rt.ID, "error", err)
			continue
		}
		log.Infow("snapshot ready",
			"route_id", rt.ID,
			"fallback_mode", snap.Meta.Fallback,
			"reason", snap.Meta.Reason,
		)
	}
}
