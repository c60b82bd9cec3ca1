// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/screening-engine/internal/snapshot"
	"github.com/pdiddy/screening-engine/pkg/types"
)

// timeNow is overridden in tests to fix manifest timestamps.
var timeNow = time.Now

// Run works through the catalog source by source: download, parse,
// accumulate. A failing source is logged and left out of the manifest
// so one flaky mirror cannot block an update, unless AllOrNothing is
// set. The surviving records and manifest become a new snapshot.
func Run(ctx context.Context, store *snapshot.Store, catalog Catalog, cfg types.IngestConfig, logger *zap.Logger) (types.Snapshot, error) {
	if err := catalog.Validate(); err != nil {
		return types.Snapshot{}, err
	}
	if len(catalog.Sources) == 0 {
		return types.Snapshot{}, fmt.Errorf("%w: empty source catalog", types.ErrConfiguration)
	}

	fetcher := NewFetcher(cfg.HTTPConfig)
	manifest := make(map[string]types.ManifestEntry)
	var records []types.EntityRecord

	for _, src := range catalog.Sources {
		if err := ctx.Err(); err != nil {
			return types.Snapshot{}, err
		}

		parsed, entry, err := fetchAndParse(ctx, fetcher, src)
		if err != nil {
			if cfg.AllOrNothing {
				return types.Snapshot{}, fmt.Errorf("source %s: %w", src.ID, err)
			}
			logger.Warn("source failed, omitting from manifest",
				zap.String("source", src.ID),
				zap.Error(err))
			continue
		}

		entry.RecordCount = len(parsed)
		manifest[src.ID] = entry
		records = append(records, parsed...)
		logger.Info("source ingested",
			zap.String("source", src.ID),
			zap.Int("records", len(parsed)),
			zap.String("sha256", entry.SHA256))
	}

	if len(manifest) == 0 {
		return types.Snapshot{}, fmt.Errorf("all %d sources failed", len(catalog.Sources))
	}

	snap, err := store.Create(ctx, records, manifest)
	if err != nil {
		return types.Snapshot{}, err
	}
	logger.Info("snapshot created",
		zap.String("snapshot_id", snap.ID),
		zap.Int("sources", len(manifest)),
		zap.Int("records", snap.RecordCount))
	return snap, nil
}

func fetchAndParse(ctx context.Context, fetcher *Fetcher, src Source) ([]types.EntityRecord, types.ManifestEntry, error) {
	payloads, entry, err := fetcher.FetchSource(ctx, src)
	if err != nil {
		return nil, types.ManifestEntry{}, err
	}

	parser, err := parserFor(src.Format)
	if err != nil {
		return nil, types.ManifestEntry{}, err
	}
	parsed, err := parser.Parse(src.ID, payloads)
	if err != nil {
		return nil, types.ManifestEntry{}, err
	}
	return parsed, entry, nil
}
