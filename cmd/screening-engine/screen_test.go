// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"

	"github.com/spf13/viper"

	"github.com/pdiddy/screening-engine/pkg/types"
)

func TestScreeningConfigDefaultsWhenUnset(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg := screeningConfig()
	if cfg.TopK != types.DefaultTopK {
		t.Errorf("TopK = %d, want %d", cfg.TopK, types.DefaultTopK)
	}
	if cfg.ReviewThreshold != types.DefaultReviewThreshold {
		t.Errorf("ReviewThreshold = %v, want %v", cfg.ReviewThreshold, types.DefaultReviewThreshold)
	}
	if cfg.BlockThreshold != types.DefaultBlockThreshold {
		t.Errorf("BlockThreshold = %v, want %v", cfg.BlockThreshold, types.DefaultBlockThreshold)
	}
}

func TestScreeningConfigReadsConfigKeys(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("screening.top_k", 5)
	viper.Set("screening.review_threshold", 50.0)
	viper.Set("screening.block_threshold", 95.0)
	viper.Set("screening.workers", 2)

	cfg := screeningConfig()
	if cfg.TopK != 5 {
		t.Errorf("TopK = %d, want 5", cfg.TopK)
	}
	if cfg.ReviewThreshold != 50.0 {
		t.Errorf("ReviewThreshold = %v, want 50", cfg.ReviewThreshold)
	}
	if cfg.BlockThreshold != 95.0 {
		t.Errorf("BlockThreshold = %v, want 95", cfg.BlockThreshold)
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Workers)
	}
}

func TestScreenOptionsConfigThenFlags(t *testing.T) {
	cfg := types.ScreeningConfig{TopK: 5, ReviewThreshold: 50.0, BlockThreshold: 95.0}

	// No flags changed: config values carry through.
	opts := screenOptions(screenCmd, cfg)
	if opts.TopK != 5 || opts.ReviewThreshold != 50.0 || opts.BlockThreshold != 95.0 {
		t.Errorf("config-sourced options = %+v", opts)
	}

	// An explicit flag beats the config value for that key only.
	if err := screenCmd.Flags().Set("review-threshold", "30"); err != nil {
		t.Fatal(err)
	}
	opts = screenOptions(screenCmd, cfg)
	if opts.ReviewThreshold != 30.0 {
		t.Errorf("ReviewThreshold = %v, want flag value 30", opts.ReviewThreshold)
	}
	if opts.TopK != 5 || opts.BlockThreshold != 95.0 {
		t.Errorf("unflagged options should keep config values, got %+v", opts)
	}
}
