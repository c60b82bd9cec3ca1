// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package snapshot persists immutable, content-addressed captures of
// watchlist data and resolves them for screening.
// Implements: prd003-snapshots (R1-R4);
//
//	docs/ARCHITECTURE § Snapshot Store.
//
// The store is append-only: snapshots are inserted once and never
// updated or deleted, which is what makes historical replay and audit
// reproducibility possible.
package snapshot

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/screening-engine/pkg/types"
)

const (
	indexDir     = "index"
	snapshotsDir = "snapshots"
	dbFile       = "screening.db"
	manifestFile = "manifest.json"
	auditFile    = "audit.jsonl"

	// hashPrefixLen is the number of hex digits of the content hash kept
	// in the snapshot id.
	hashPrefixLen = 12

	// idTimeLayout formats the UTC timestamp component of a snapshot id.
	idTimeLayout = "20060102T150405Z"
)

// timeNow is overridden in tests to control snapshot timestamps.
var timeNow = time.Now

// Store manages the snapshot SQLite database and per-snapshot files.
type Store struct {
	db      *sql.DB
	dataDir string
}

// NewStore opens or creates the snapshot database at
// dataDir/index/screening.db, creating the schema if needed (R1.2).
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.DataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating index directory: %v", types.ErrStorage, err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("%w: opening database %s: %v", types.ErrStorage, dbPath, err)
	}

	s := &Store{db: db, dataDir: cfg.DataDir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: creating schema: %v", types.ErrStorage, err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			record_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS manifest_entries (
			snapshot_id TEXT NOT NULL REFERENCES snapshots(id),
			source_id TEXT NOT NULL,
			download_url TEXT,
			retrieved_at TEXT,
			sha256 TEXT NOT NULL,
			record_count INTEGER NOT NULL,
			PRIMARY KEY (snapshot_id, source_id)
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id TEXT NOT NULL REFERENCES snapshots(id),
			source_id TEXT NOT NULL,
			entity_id TEXT,
			primary_name TEXT NOT NULL,
			alternate_names TEXT,
			programs TEXT,
			raw_fields TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_snapshot ON records(snapshot_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Dir returns the per-snapshot directory holding manifest.json and the
// audit log.
func (s *Store) Dir(snapshotID string) string {
	return filepath.Join(s.dataDir, snapshotsDir, snapshotID)
}

// AuditPath returns the snapshot's append-only audit log path.
func (s *Store) AuditPath(snapshotID string) string {
	return filepath.Join(s.Dir(snapshotID), auditFile)
}

// newSnapshotID derives the id from the creation instant and the source
// content hashes: sha256 over the manifest digests concatenated in
// source_id order, so byte-identical source content always yields the
// same hash component while the timestamp keeps ids distinguishable.
func newSnapshotID(createdAt time.Time, manifest map[string]types.ManifestEntry) string {
	sourceIDs := make([]string, 0, len(manifest))
	for id := range manifest {
		sourceIDs = append(sourceIDs, id)
	}
	sort.Strings(sourceIDs)

	h := sha256.New()
	for _, id := range sourceIDs {
		h.Write([]byte(id))
		h.Write([]byte(manifest[id].SHA256))
	}
	digest := fmt.Sprintf("%x", h.Sum(nil))[:hashPrefixLen]

	return createdAt.Format(idTimeLayout) + "_" + digest
}

// claimSnapshotID finds the first unused id at or after createdAt.
// Identical content captured twice in the same second would otherwise
// collide on the primary key, so the timestamp component is advanced
// one second at a time until the id is free.
func (s *Store) claimSnapshotID(ctx context.Context, createdAt time.Time, manifest map[string]types.ManifestEntry) (string, time.Time, error) {
	for {
		id := newSnapshotID(createdAt, manifest)
		var exists int
		err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM snapshots WHERE id = ?`, id).Scan(&exists)
		if err != nil {
			return "", time.Time{}, fmt.Errorf("%w: checking snapshot id %s: %v", types.ErrStorage, id, err)
		}
		if exists == 0 {
			return id, createdAt, nil
		}
		createdAt = createdAt.Add(time.Second)
	}
}

// Create persists a new immutable snapshot from the ingested records
// and per-source manifest entries (R2.1-R2.4). It inserts the snapshot
// row, manifest entries, and records in one transaction, then writes
// manifest.json to the snapshot directory. Existing snapshots are never
// touched.
func (s *Store) Create(ctx context.Context, records []types.EntityRecord, manifest map[string]types.ManifestEntry) (types.Snapshot, error) {
	createdAt := timeNow().UTC().Truncate(time.Second)
	id, createdAt, err := s.claimSnapshotID(ctx, createdAt, manifest)
	if err != nil {
		return types.Snapshot{}, err
	}
	snap := types.Snapshot{
		ID:          id,
		CreatedAt:   createdAt,
		Manifest:    manifest,
		RecordCount: len(records),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Snapshot{}, fmt.Errorf("%w: beginning transaction: %v", types.ErrStorage, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, created_at, record_count) VALUES (?, ?, ?)`,
		snap.ID, createdAt.Format(time.RFC3339), snap.RecordCount,
	); err != nil {
		return types.Snapshot{}, fmt.Errorf("%w: inserting snapshot %s: %v", types.ErrStorage, snap.ID, err)
	}

	for _, sourceID := range sortedSourceIDs(manifest) {
		m := manifest[sourceID]
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO manifest_entries (snapshot_id, source_id, download_url, retrieved_at, sha256, record_count)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			snap.ID, sourceID, m.DownloadURL, m.RetrievedAt.UTC().Format(time.RFC3339), m.SHA256, m.RecordCount,
		); err != nil {
			return types.Snapshot{}, fmt.Errorf("%w: inserting manifest entry %s/%s: %v", types.ErrStorage, snap.ID, sourceID, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (snapshot_id, source_id, entity_id, primary_name, alternate_names, programs, raw_fields)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return types.Snapshot{}, fmt.Errorf("%w: preparing record insert: %v", types.ErrStorage, err)
	}
	defer stmt.Close()

	for _, r := range records {
		altJSON, _ := json.Marshal(r.AlternateNames)
		progJSON, _ := json.Marshal(r.Programs)
		rawJSON, _ := json.Marshal(r.RawFields)
		if _, err := stmt.ExecContext(ctx,
			snap.ID, r.SourceID, r.EntityID, r.PrimaryName,
			string(altJSON), string(progJSON), string(rawJSON),
		); err != nil {
			return types.Snapshot{}, fmt.Errorf("%w: inserting record %s/%s: %v", types.ErrStorage, r.SourceID, r.EntityID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return types.Snapshot{}, fmt.Errorf("%w: committing snapshot %s: %v", types.ErrStorage, snap.ID, err)
	}

	if err := s.writeManifest(snap); err != nil {
		return types.Snapshot{}, err
	}
	return snap, nil
}

func sortedSourceIDs(manifest map[string]types.ManifestEntry) []string {
	ids := make([]string, 0, len(manifest))
	for id := range manifest {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// writeManifest writes the immutable manifest.json and creates the
// empty audit log alongside it.
func (s *Store) writeManifest(snap types.Snapshot) error {
	dir := s.Dir(snap.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating snapshot directory %s: %v", types.ErrStorage, dir, err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshaling manifest for %s: %v", types.ErrStorage, snap.ID, err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifestFile), data, 0o644); err != nil {
		return fmt.Errorf("%w: writing manifest for %s: %v", types.ErrStorage, snap.ID, err)
	}

	f, err := os.OpenFile(s.AuditPath(snap.ID), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: creating audit log for %s: %v", types.ErrStorage, snap.ID, err)
	}
	return f.Close()
}

// Resolve returns the snapshot for snapshotID, or the latest snapshot
// when snapshotID is empty (R3.1, R3.2). A missing snapshot — or an
// empty store when "latest" was requested — yields ErrNotFound.
func (s *Store) Resolve(ctx context.Context, snapshotID string) (types.Snapshot, error) {
	var row *sql.Row
	if snapshotID == "" {
		row = s.db.QueryRowContext(ctx,
			`SELECT id, created_at, record_count FROM snapshots
			 ORDER BY created_at DESC, id DESC LIMIT 1`)
	} else {
		row = s.db.QueryRowContext(ctx,
			`SELECT id, created_at, record_count FROM snapshots WHERE id = ?`, snapshotID)
	}

	var (
		snap      types.Snapshot
		createdAt string
	)
	if err := row.Scan(&snap.ID, &createdAt, &snap.RecordCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if snapshotID == "" {
				return types.Snapshot{}, fmt.Errorf("%w: no snapshot exists yet, run update first", types.ErrNotFound)
			}
			return types.Snapshot{}, fmt.Errorf("%w: snapshot %s", types.ErrNotFound, snapshotID)
		}
		return types.Snapshot{}, fmt.Errorf("%w: resolving snapshot %q: %v", types.ErrStorage, snapshotID, err)
	}

	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return types.Snapshot{}, fmt.Errorf("%w: snapshot %s has malformed created_at %q", types.ErrStorage, snap.ID, createdAt)
	}
	snap.CreatedAt = t

	manifest, err := s.manifest(ctx, snap.ID)
	if err != nil {
		return types.Snapshot{}, err
	}
	snap.Manifest = manifest
	return snap, nil
}

func (s *Store) manifest(ctx context.Context, snapshotID string) (map[string]types.ManifestEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source_id, download_url, retrieved_at, sha256, record_count
		 FROM manifest_entries WHERE snapshot_id = ? ORDER BY source_id`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("%w: reading manifest for %s: %v", types.ErrStorage, snapshotID, err)
	}
	defer rows.Close()

	manifest := make(map[string]types.ManifestEntry)
	for rows.Next() {
		var (
			m           types.ManifestEntry
			retrievedAt string
		)
		if err := rows.Scan(&m.SourceID, &m.DownloadURL, &retrievedAt, &m.SHA256, &m.RecordCount); err != nil {
			return nil, fmt.Errorf("%w: scanning manifest entry for %s: %v", types.ErrStorage, snapshotID, err)
		}
		if t, err := time.Parse(time.RFC3339, retrievedAt); err == nil {
			m.RetrievedAt = t
		}
		manifest[m.SourceID] = m
	}
	return manifest, rows.Err()
}

// Records loads every entity record captured in the snapshot, in
// insertion order (R4.1).
func (s *Store) Records(ctx context.Context, snapshotID string) ([]types.EntityRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source_id, entity_id, primary_name, alternate_names, programs, raw_fields
		 FROM records WHERE snapshot_id = ? ORDER BY rowid`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("%w: reading records for %s: %v", types.ErrStorage, snapshotID, err)
	}
	defer rows.Close()

	var records []types.EntityRecord
	for rows.Next() {
		var (
			r                          types.EntityRecord
			altJSON, progJSON, rawJSON sql.NullString
		)
		if err := rows.Scan(&r.SourceID, &r.EntityID, &r.PrimaryName, &altJSON, &progJSON, &rawJSON); err != nil {
			return nil, fmt.Errorf("%w: scanning record for %s: %v", types.ErrStorage, snapshotID, err)
		}
		if altJSON.Valid && altJSON.String != "" {
			if err := json.Unmarshal([]byte(altJSON.String), &r.AlternateNames); err != nil {
				return nil, fmt.Errorf("%w: record %s/%s has malformed alternate_names: %v", types.ErrStorage, r.SourceID, r.EntityID, err)
			}
		}
		if progJSON.Valid && progJSON.String != "" {
			if err := json.Unmarshal([]byte(progJSON.String), &r.Programs); err != nil {
				return nil, fmt.Errorf("%w: record %s/%s has malformed programs: %v", types.ErrStorage, r.SourceID, r.EntityID, err)
			}
		}
		if rawJSON.Valid && rawJSON.String != "" {
			if err := json.Unmarshal([]byte(rawJSON.String), &r.RawFields); err != nil {
				return nil, fmt.Errorf("%w: record %s/%s has malformed raw_fields: %v", types.ErrStorage, r.SourceID, r.EntityID, err)
			}
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// List returns all snapshots with their manifests, newest first (R3.3).
func (s *Store) List(ctx context.Context) ([]types.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, record_count FROM snapshots ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: listing snapshots: %v", types.ErrStorage, err)
	}
	defer rows.Close()

	var snaps []types.Snapshot
	for rows.Next() {
		var (
			snap      types.Snapshot
			createdAt string
		)
		if err := rows.Scan(&snap.ID, &createdAt, &snap.RecordCount); err != nil {
			return nil, fmt.Errorf("%w: scanning snapshot row: %v", types.ErrStorage, err)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			snap.CreatedAt = t
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listing snapshots: %v", types.ErrStorage, err)
	}
	for i := range snaps {
		manifest, err := s.manifest(ctx, snaps[i].ID)
		if err != nil {
			return nil, err
		}
		snaps[i].Manifest = manifest
	}
	return snaps, nil
}
