// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the screening engine.
// Implements: prd001-ingestion (EntityRecord, R2.1-R2.4);
//
//	prd002-screening (Hit, ScreeningResult, Decision);
//	prd003-snapshots (Snapshot, ManifestEntry).
//
// See docs/ARCHITECTURE § Data Structures.
package types

// EntityRecord is the canonical representation of one watchlist entry,
// regardless of the originating list format. Every record belongs to
// exactly one source list; the primary name and each alternate name
// participate in matching as independent candidate names sharing the
// record's identity.
type EntityRecord struct {
	// SourceID identifies the originating list (e.g. "OFAC-SDN", "UN-SC").
	SourceID string `json:"source_id" yaml:"source_id"`

	// EntityID is the source-assigned identifier. Empty when the source
	// publishes none.
	EntityID string `json:"entity_id" yaml:"entity_id"`

	// PrimaryName is the entry's listed name. Required, non-empty after
	// trimming.
	PrimaryName string `json:"primary_name" yaml:"primary_name"`

	// AlternateNames lists aliases in source order.
	AlternateNames []string `json:"alternate_names,omitempty" yaml:"alternate_names,omitempty"`

	// Programs holds free-text program or designation tags. Display only;
	// never scored.
	Programs []string `json:"programs,omitempty" yaml:"programs,omitempty"`

	// RawFields preserves source-specific metadata for audit display.
	RawFields map[string]string `json:"raw_fields,omitempty" yaml:"raw_fields,omitempty"`
}

// Decision classifies a screening outcome against the configured
// thresholds.
type Decision string

const (
	DecisionPass   Decision = "PASS"
	DecisionReview Decision = "REVIEW"
	DecisionBlock  Decision = "BLOCK"
)

// MatchField identifies which candidate name of a record produced a hit.
type MatchField string

const (
	FieldPrimary MatchField = "primary"
	FieldAlias   MatchField = "alias"
)

// Hit is one scored candidate match surfaced in a screening result. At
// most one Hit exists per (SourceID, EntityID) pair: when several names
// of the same entity match, only the highest-scoring one is kept.
type Hit struct {
	// SourceID is the originating list of the matched record.
	SourceID string `json:"source_id" yaml:"source_id"`

	// EntityID is the matched record's source-assigned identifier.
	EntityID string `json:"entity_id" yaml:"entity_id"`

	// MatchedName is the candidate name (primary or alias) that produced
	// the entity's top score.
	MatchedName string `json:"matched_name" yaml:"matched_name"`

	// MatchedField reports whether MatchedName is the primary name or an
	// alias.
	MatchedField MatchField `json:"matched_field" yaml:"matched_field"`

	// Score is the similarity score in [0,100], rounded to one decimal.
	Score float64 `json:"score" yaml:"score"`

	// Programs carries the record's designation tags for display.
	Programs []string `json:"programs,omitempty" yaml:"programs,omitempty"`
}

// Thresholds holds the decision boundaries a screening ran with.
// 0 <= Review <= Block <= 100.
type Thresholds struct {
	// Review is the minimum score for a hit to be retained and for a
	// REVIEW decision.
	Review float64 `json:"review_threshold" yaml:"review_threshold"`

	// Block is the minimum score for a BLOCK decision.
	Block float64 `json:"block_threshold" yaml:"block_threshold"`
}

// ScreeningResult is the engine's output for one query. It is not
// persisted by the engine itself; persistence happens through the audit
// log.
type ScreeningResult struct {
	// Query is the input name exactly as supplied.
	Query string `json:"query" yaml:"query"`

	// SnapshotID identifies the immutable snapshot the query ran against.
	SnapshotID string `json:"snapshot_id" yaml:"snapshot_id"`

	// Decision is the PASS/REVIEW/BLOCK classification, computed over the
	// full surviving hit set before truncation.
	Decision Decision `json:"decision" yaml:"decision"`

	// Matches lists surviving hits, score descending, truncated to the
	// requested top-k. Ties order by source_id then entity_id ascending.
	Matches []Hit `json:"matches" yaml:"matches"`

	// Thresholds records the boundaries used, for reproducibility.
	Thresholds Thresholds `json:"thresholds_used" yaml:"thresholds_used"`
}
