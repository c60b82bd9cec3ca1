// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/screening-engine/internal/screen"
	"github.com/pdiddy/screening-engine/pkg/types"
)

var screenCmd = &cobra.Command{
	Use:   "screen [name]",
	Short: "Screen a name against a watchlist snapshot",
	Long: `Screen checks a name against the latest snapshot (or --snapshot-id) and
prints the matches with a PASS / REVIEW / BLOCK decision. Every
successful call is appended to the snapshot's audit log.

The exit status reflects completion, not the decision: a BLOCK result
still exits zero. Screening a name requires a snapshot; run update
first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScreen,
}

func runScreen(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	cfg := screeningConfig()
	engine, err := screen.NewEngine(store, cfg)
	if err != nil {
		return err
	}

	result, err := engine.Screen(cmd.Context(), query, screenOptions(cmd, cfg))
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return screen.FormatJSON(result, os.Stdout)
	}
	screen.FormatTable(result, os.Stdout)
	fmt.Println("\nScoring: token-set similarity (0.8) + character-sequence similarity (0.2), 0-100.")
	return nil
}

// screeningConfig pulls screening settings from the config file,
// falling back to the package defaults for any key the file leaves
// unset. Flags override per call via screenOptions.
func screeningConfig() types.ScreeningConfig {
	cfg := types.ScreeningConfig{
		TopK:            types.DefaultTopK,
		ReviewThreshold: types.DefaultReviewThreshold,
		BlockThreshold:  types.DefaultBlockThreshold,
		Workers:         viper.GetInt("screening.workers"),
	}
	if viper.IsSet("screening.top_k") {
		cfg.TopK = viper.GetInt("screening.top_k")
	}
	if viper.IsSet("screening.review_threshold") {
		cfg.ReviewThreshold = viper.GetFloat64("screening.review_threshold")
	}
	if viper.IsSet("screening.block_threshold") {
		cfg.BlockThreshold = viper.GetFloat64("screening.block_threshold")
	}
	cfg.Scoring.TokenWeight = viper.GetFloat64("screening.scoring.token_weight")
	cfg.Scoring.SequenceWeight = viper.GetFloat64("screening.scoring.sequence_weight")
	return cfg
}

// screenOptions seeds the per-call options from the config and applies
// any flags the caller set explicitly on top.
func screenOptions(cmd *cobra.Command, cfg types.ScreeningConfig) screen.Options {
	opts := screen.Options{
		TopK:            cfg.TopK,
		ReviewThreshold: cfg.ReviewThreshold,
		BlockThreshold:  cfg.BlockThreshold,
	}
	opts.SnapshotID, _ = cmd.Flags().GetString("snapshot-id")
	if cmd.Flags().Changed("top-k") {
		opts.TopK, _ = cmd.Flags().GetInt("top-k")
	}
	if cmd.Flags().Changed("review-threshold") {
		opts.ReviewThreshold, _ = cmd.Flags().GetFloat64("review-threshold")
	}
	if cmd.Flags().Changed("block-threshold") {
		opts.BlockThreshold, _ = cmd.Flags().GetFloat64("block-threshold")
	}
	return opts
}

func init() {
	screenCmd.Flags().String("snapshot-id", "", "snapshot to screen against (default: latest)")
	screenCmd.Flags().Int("top-k", types.DefaultTopK, "maximum matches to return")
	screenCmd.Flags().Float64("review-threshold", types.DefaultReviewThreshold, "minimum score to retain a match")
	screenCmd.Flags().Float64("block-threshold", types.DefaultBlockThreshold, "minimum score for a BLOCK decision")
	screenCmd.Flags().Bool("json", false, "output the result as JSON")

	rootCmd.AddCommand(screenCmd)
}
