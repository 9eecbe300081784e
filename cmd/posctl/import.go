package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	kafkaadapter "github.com/couchcryptid/pos-import-service/internal/adapter/kafka"
	"github.com/couchcryptid/pos-import-service/internal/adapter/osm"
	"github.com/couchcryptid/pos-import-service/internal/importer"
	"github.com/couchcryptid/pos-import-service/internal/store"
)

var importTimeout time.Duration

var importCmd = &cobra.Command{
	Use:   "import <nodeId>",
	Short: "Import one OSM node and print the saved point of sale as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), importTimeout)
		defer cancel()

		st, err := store.Open(ctx, cfg, logger)
		if err != nil {
			return eris.Wrap(err, "open store")
		}
		defer st.Close() //nolint:errcheck // best-effort on exit

		opts := []importer.Option{importer.WithStoreDriver(st.Driver)}
		if cfg.KafkaEnabled {
			publisher := kafkaadapter.NewPublisher(cfg, logger)
			defer publisher.Close() //nolint:errcheck // best-effort on exit
			opts = append(opts, importer.WithPublisher(publisher))
		}

		client := osm.NewClient(cfg.OSMAPIURL, cfg.OSMUserAgent, cfg.OSMTimeout, cfg.OSMRateLimit, metrics, logger)
		svc := importer.New(client, st.Repo, logger, metrics, opts...)

		pos, err := svc.ImportFromOSM(ctx, args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(pos)
	},
}

func init() {
	importCmd.Flags().DurationVar(&importTimeout, "timeout", 30*time.Second, "overall deadline for the import")
	rootCmd.AddCommand(importCmd)
}
