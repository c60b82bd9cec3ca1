// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/screening-engine/internal/ingest"
	"github.com/pdiddy/screening-engine/pkg/types"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Download watchlists and create a new snapshot",
	Long: `Update downloads every source in the catalog, parses the lists into
canonical entity records, and stores them as a new immutable snapshot.
A source that fails to download or parse is logged and omitted from the
snapshot manifest; pass --all-or-nothing to abort instead.

The snapshot id is printed on success and becomes the default for
subsequent screen calls.`,
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	sourcesFile, _ := cmd.Flags().GetString("sources")
	if sourcesFile == "" {
		sourcesFile = viper.GetString("ingest.sources_file")
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")
	userAgent, _ := cmd.Flags().GetString("user-agent")
	allOrNothing, _ := cmd.Flags().GetBool("all-or-nothing")
	skip, _ := cmd.Flags().GetStringSlice("skip")

	catalog, err := ingest.LoadCatalog(sourcesFile)
	if err != nil {
		return err
	}
	catalog = catalog.Without(skip)

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	logCfg := zap.NewDevelopmentConfig()
	logger, err := logCfg.Build()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg := types.IngestConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: userAgent,
		},
		SourcesFile:  sourcesFile,
		AllOrNothing: allOrNothing,
	}

	snap, err := ingest.Run(cmd.Context(), store, catalog, cfg, logger)
	if err != nil {
		return err
	}

	fmt.Printf("Snapshot %s created: %d sources, %d records\n",
		snap.ID, len(snap.Manifest), snap.RecordCount)
	return nil
}

func init() {
	updateCmd.Flags().String("sources", "", "YAML source catalog overriding the built-in list")
	updateCmd.Flags().Duration("timeout", 60*time.Second, "HTTP request timeout per download")
	updateCmd.Flags().String("user-agent", "", "User-Agent header for downloads")
	updateCmd.Flags().Bool("all-or-nothing", false, "abort the snapshot when any source fails")
	updateCmd.Flags().StringSlice("skip", nil, "source ids to skip (repeatable)")

	rootCmd.AddCommand(updateCmd)
}
