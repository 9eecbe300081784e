package main

import (
	"fmt"
	"log/slog"
	"os"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/pos-import-service/internal/config"
	"github.com/couchcryptid/pos-import-service/internal/observability"
)

var (
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
)

var rootCmd = &cobra.Command{
	Use:   "posctl",
	Short: "Import OpenStreetMap nodes as points of sale",
	Long:  "Fetches OSM nodes, extracts their name and exact coordinates, and stores them with the configured STORE_DRIVER.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		logger = sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
		metrics = observability.NewMetrics()
		return nil
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
