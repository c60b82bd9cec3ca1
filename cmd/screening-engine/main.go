// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the screening-engine CLI.
// Implements: prd001-ingestion, prd002-screening, prd003-snapshots,
//             prd004-audit (CLI surface).
// See docs/ARCHITECTURE § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/screening-engine/internal/snapshot"
	"github.com/pdiddy/screening-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the screening-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "screening-engine",
	Short: "Sanctions and export-control name screening",
	Long: `screening-engine downloads government watchlists (OFAC, UN, EU, UK and
others) into immutable point-in-time snapshots and screens names against
them with fuzzy matching.

Each operation is a subcommand: update builds a new snapshot from the
source catalog, screen checks a name and renders a PASS / REVIEW / BLOCK
decision, snapshot inspects stored snapshots, and audit replays the
screening history of a snapshot.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./screening-engine.yaml or ~/.config/screening-engine/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "base data directory (default: ./.screening)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("screening-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "screening-engine"))
		}
	}

	viper.SetEnvPrefix("SCREENING_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// dataDir resolves the base data directory: flag, then config, then
// the default next to the working directory.
func dataDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		return dir
	}
	if dir := viper.GetString("store.data_dir"); dir != "" {
		return dir
	}
	return ".screening"
}

func openStore(cmd *cobra.Command) (*snapshot.Store, error) {
	return snapshot.NewStore(types.StoreConfig{DataDir: dataDir(cmd)})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
