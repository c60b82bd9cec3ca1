// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ManifestEntry records the provenance of one source list within a
// snapshot. Per prd003-snapshots R2.1-R2.3.
type ManifestEntry struct {
	// SourceID identifies the list this entry describes.
	SourceID string `json:"source_id" yaml:"source_id"`

	// DownloadURL is where the source data was retrieved from.
	DownloadURL string `json:"download_url" yaml:"download_url"`

	// RetrievedAt is the UTC retrieval time.
	RetrievedAt time.Time `json:"retrieved_at" yaml:"retrieved_at"`

	// SHA256 is the hex digest of the retrieved payload. Snapshot
	// identity derives from these digests.
	SHA256 string `json:"sha256" yaml:"sha256"`

	// RecordCount is the number of entity records parsed from the source.
	RecordCount int `json:"record_count" yaml:"record_count"`
}

// Snapshot is an immutable, timestamped capture of all source data at
// one point in time. Created once; never mutated or deleted.
// Per prd003-snapshots R1.1-R1.4.
type Snapshot struct {
	// ID is "<UTC timestamp>_<content hash prefix>", globally unique,
	// assigned at creation.
	ID string `json:"snapshot_id" yaml:"snapshot_id"`

	// CreatedAt is the UTC creation instant the ID's timestamp component
	// encodes.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// Manifest maps source_id to that source's provenance entry. A source
	// that failed ingestion is simply absent.
	Manifest map[string]ManifestEntry `json:"manifest" yaml:"manifest"`

	// RecordCount is the total number of entity records captured.
	RecordCount int `json:"record_count" yaml:"record_count"`
}

// AuditEntry is one line of the append-only audit log: the full context
// of a single screening invocation. Per prd004-audit R1.1-R1.3.
type AuditEntry struct {
	// Timestamp is the UTC completion time of the screening call.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// Query is the screened name exactly as supplied.
	Query string `json:"query" yaml:"query"`

	// SnapshotID identifies the snapshot the screening ran against.
	SnapshotID string `json:"snapshot_id" yaml:"snapshot_id"`

	// ReviewThreshold and BlockThreshold record the decision boundaries.
	ReviewThreshold float64 `json:"review_threshold" yaml:"review_threshold"`
	BlockThreshold  float64 `json:"block_threshold" yaml:"block_threshold"`

	// Hits lists the matches exactly as returned to the caller.
	Hits []Hit `json:"hits" yaml:"hits"`

	// Decision is the PASS/REVIEW/BLOCK outcome.
	Decision Decision `json:"decision" yaml:"decision"`
}
