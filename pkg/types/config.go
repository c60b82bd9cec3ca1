// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Default decision policy. Low review threshold by design: surface all
// potential matches for human review. Per prd002-screening R4.2.
const (
	DefaultTopK            = 10
	DefaultReviewThreshold = 20.0
	DefaultBlockThreshold  = 90.0
)

// HTTPConfig holds shared HTTP settings for stages that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "screening-engine/0.1"). Per prd001-ingestion R5.1.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// IngestConfig holds settings for the ingestion stage.
// Per prd001-ingestion R5.1-R5.4.
type IngestConfig struct {
	HTTPConfig `yaml:",inline"`

	// SourcesFile is an optional YAML source catalog overriding the
	// built-in one.
	SourcesFile string `json:"sources_file,omitempty" yaml:"sources_file,omitempty"`

	// AllOrNothing aborts the whole snapshot when any source fails,
	// instead of recording the failed source as absent from the manifest.
	AllOrNothing bool `json:"all_or_nothing" yaml:"all_or_nothing"`
}

// ScoringConfig holds the similarity weights. Configuration values,
// not hardcoded constants, so compliance teams can tune them without
// code changes. Per prd002-screening R2.4.
type ScoringConfig struct {
	// TokenWeight weights the token-set (Dice) component. Default 0.8.
	TokenWeight float64 `json:"token_weight" yaml:"token_weight"`

	// SequenceWeight weights the character-sequence component. Default 0.2.
	SequenceWeight float64 `json:"sequence_weight" yaml:"sequence_weight"`
}

// ScreeningConfig holds settings for the screening stage.
// Per prd002-screening R4.1-R4.3.
type ScreeningConfig struct {
	// TopK is the maximum number of hits returned (default 10).
	TopK int `json:"top_k" yaml:"top_k"`

	// ReviewThreshold is the minimum score for a hit to be retained
	// (default 20).
	ReviewThreshold float64 `json:"review_threshold" yaml:"review_threshold"`

	// BlockThreshold is the minimum score for a BLOCK decision
	// (default 90).
	BlockThreshold float64 `json:"block_threshold" yaml:"block_threshold"`

	// Workers is the number of scoring goroutines. Zero means one per
	// CPU.
	Workers int `json:"workers" yaml:"workers"`

	Scoring ScoringConfig `json:"scoring" yaml:"scoring"`
}

// StoreConfig holds settings for the snapshot store and audit log.
// Per prd003-snapshots R1.2, prd004-audit R2.1.
type StoreConfig struct {
	// DataDir is the base directory (contains index/, snapshots/).
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// EngineConfig groups all stage configurations.
type EngineConfig struct {
	Ingest    IngestConfig    `json:"ingest" yaml:"ingest"`
	Screening ScreeningConfig `json:"screening" yaml:"screening"`
	Store     StoreConfig     `json:"store" yaml:"store"`
}
