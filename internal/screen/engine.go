// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package screen orchestrates a screening call: resolve snapshot, build
// or reuse the entity index, score every candidate, rank, classify, and
// record the audit entry. Implements: prd002-screening (R4-R6);
//
//	docs/ARCHITECTURE § Screening Engine.
package screen

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/screening-engine/internal/audit"
	"github.com/pdiddy/screening-engine/internal/index"
	"github.com/pdiddy/screening-engine/internal/normalize"
	"github.com/pdiddy/screening-engine/internal/score"
	"github.com/pdiddy/screening-engine/internal/snapshot"
	"github.com/pdiddy/screening-engine/pkg/types"
)

// timeNow is overridden in tests to fix audit timestamps.
var timeNow = time.Now

// Options holds the per-call screening parameters.
type Options struct {
	// SnapshotID selects a historical snapshot. Empty means latest.
	SnapshotID string

	// TopK caps the returned match list. Must be >= 1. Truncation never
	// changes the decision: the decision is computed before truncating.
	TopK int

	// ReviewThreshold is the minimum score for a hit to survive at all;
	// sub-threshold matches carry no compliance value and are dropped,
	// not merely ranked lower.
	ReviewThreshold float64

	// BlockThreshold is the minimum score for a BLOCK decision.
	// 0 <= ReviewThreshold <= BlockThreshold <= 100.
	BlockThreshold float64
}

// DefaultOptions returns the documented default policy: top 10 matches,
// review at 20, block at 90.
func DefaultOptions() Options {
	return Options{
		TopK:            types.DefaultTopK,
		ReviewThreshold: types.DefaultReviewThreshold,
		BlockThreshold:  types.DefaultBlockThreshold,
	}
}

// Validate rejects option combinations before any scoring happens.
func (o Options) Validate() error {
	if o.TopK < 1 {
		return fmt.Errorf("%w: top_k %d must be >= 1", types.ErrConfiguration, o.TopK)
	}
	if o.ReviewThreshold < 0 || o.BlockThreshold > 100 || o.ReviewThreshold > o.BlockThreshold {
		return fmt.Errorf("%w: thresholds review=%g block=%g must satisfy 0 <= review <= block <= 100",
			types.ErrConfiguration, o.ReviewThreshold, o.BlockThreshold)
	}
	return nil
}

// Engine screens queries against snapshots. Safe for concurrent use:
// the per-snapshot index and audit recorder caches are locked, and the
// indexes themselves are immutable once built.
type Engine struct {
	store   *snapshot.Store
	weights score.Weights
	workers int

	mu        sync.Mutex
	indexes   map[string]*index.Index
	recorders map[string]*audit.Recorder
}

// NewEngine builds an engine over the snapshot store. Scoring weights
// and worker count come from configuration; invalid weights fail here,
// not at screening time.
func NewEngine(store *snapshot.Store, cfg types.ScreeningConfig) (*Engine, error) {
	weights := score.FromConfig(cfg.Scoring)
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Engine{
		store:     store,
		weights:   weights,
		workers:   workers,
		indexes:   make(map[string]*index.Index),
		recorders: make(map[string]*audit.Recorder),
	}, nil
}

// Screen runs one synchronous screening call. On success exactly one
// audit entry has been durably appended; a failed or cancelled call
// writes nothing.
func (e *Engine) Screen(ctx context.Context, query string, opts Options) (types.ScreeningResult, error) {
	if err := opts.Validate(); err != nil {
		return types.ScreeningResult{}, err
	}

	q := normalize.Name(query)
	if q.IsEmpty() {
		return types.ScreeningResult{}, fmt.Errorf("%w: %q normalizes to nothing", types.ErrInvalidQuery, query)
	}

	snap, err := e.store.Resolve(ctx, opts.SnapshotID)
	if err != nil {
		return types.ScreeningResult{}, err
	}

	idx, err := e.indexFor(ctx, snap.ID)
	if err != nil {
		return types.ScreeningResult{}, err
	}

	hits, err := e.scoreAll(ctx, q, idx, opts.ReviewThreshold)
	if err != nil {
		return types.ScreeningResult{}, err
	}

	// Reproducible ordering: score descending, then source_id, then
	// entity_id ascending.
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		if hits[i].SourceID != hits[j].SourceID {
			return hits[i].SourceID < hits[j].SourceID
		}
		return hits[i].EntityID < hits[j].EntityID
	})

	// Decision over the full surviving set, before truncation.
	decision := types.DecisionPass
	if len(hits) > 0 {
		decision = types.DecisionReview
		if hits[0].Score >= opts.BlockThreshold {
			decision = types.DecisionBlock
		}
	}

	if len(hits) > opts.TopK {
		hits = hits[:opts.TopK]
	}

	result := types.ScreeningResult{
		Query:      query,
		SnapshotID: snap.ID,
		Decision:   decision,
		Matches:    hits,
		Thresholds: types.Thresholds{Review: opts.ReviewThreshold, Block: opts.BlockThreshold},
	}

	// A cancelled call must not leave an audit entry behind.
	if err := ctx.Err(); err != nil {
		return types.ScreeningResult{}, err
	}
	if err := e.recorderFor(snap.ID).Record(types.AuditEntry{
		Timestamp:       timeNow().UTC(),
		Query:           query,
		SnapshotID:      snap.ID,
		ReviewThreshold: opts.ReviewThreshold,
		BlockThreshold:  opts.BlockThreshold,
		Hits:            result.Matches,
		Decision:        decision,
	}); err != nil {
		return types.ScreeningResult{}, err
	}

	return result, nil
}

// indexFor returns the snapshot's candidate index, building and caching
// it on first use. The cache is keyed by snapshot id; snapshots are
// immutable, so a cached index never goes stale.
func (e *Engine) indexFor(ctx context.Context, snapshotID string) (*index.Index, error) {
	e.mu.Lock()
	idx, ok := e.indexes[snapshotID]
	e.mu.Unlock()
	if ok {
		return idx, nil
	}

	records, err := e.store.Records(ctx, snapshotID)
	if err != nil {
		return nil, err
	}
	idx = index.Build(records)

	e.mu.Lock()
	// Another call may have built it concurrently; keep the first one so
	// all callers share the same candidates.
	if existing, ok := e.indexes[snapshotID]; ok {
		idx = existing
	} else {
		e.indexes[snapshotID] = idx
	}
	e.mu.Unlock()
	return idx, nil
}

func (e *Engine) recorderFor(snapshotID string) *audit.Recorder {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.recorders[snapshotID]
	if !ok {
		r = audit.NewRecorder(e.store.AuditPath(snapshotID))
		e.recorders[snapshotID] = r
	}
	return r
}

// entityKey identifies one watchlist entry across its candidate names.
type entityKey struct {
	sourceID string
	entityID string
}

// scored is a candidate hit with the tie-break context needed to pick
// one winner per entity.
type scored struct {
	hit   types.Hit
	alias bool
	pos   int
}

// better reports whether a should win over b for the same entity:
// higher score, then primary over alias, then earliest candidate in
// record order. A total order, so merge results do not depend on
// goroutine scheduling.
func better(a, b scored) bool {
	if a.hit.Score != b.hit.Score {
		return a.hit.Score > b.hit.Score
	}
	if a.alias != b.alias {
		return !a.alias
	}
	return a.pos < b.pos
}

// scoreAll scores the query against every candidate, keeping only the
// best-scoring name per entity and dropping entities below the review
// threshold. Scoring fans out across e.workers goroutines; the scorer
// is pure and the index immutable, so this is a throughput optimization
// with no effect on results.
func (e *Engine) scoreAll(ctx context.Context, q normalize.NormalizedName, idx *index.Index, reviewThreshold float64) ([]types.Hit, error) {
	candidates := idx.Candidates()
	if len(candidates) == 0 {
		return nil, nil
	}

	workers := e.workers
	if workers > len(candidates) {
		workers = len(candidates)
	}

	g, ctx := errgroup.WithContext(ctx)
	locals := make([]map[entityKey]scored, workers)

	chunk := (len(candidates) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > len(candidates) {
			hi = len(candidates)
		}
		w := w
		g.Go(func() error {
			best := make(map[entityKey]scored)
			for i := lo; i < hi; i++ {
				if i%1024 == 0 {
					select {
					case <-ctx.Done():
						return ctx.Err()
					default:
					}
				}
				c := candidates[i]
				s := score.Score(q, c.Norm, e.weights)
				key := entityKey{sourceID: c.Record.SourceID, entityID: c.Record.EntityID}
				cand := scored{
					hit: types.Hit{
						SourceID:     c.Record.SourceID,
						EntityID:     c.Record.EntityID,
						MatchedName:  c.Name,
						MatchedField: c.Field,
						Score:        s,
						Programs:     c.Record.Programs,
					},
					alias: c.Field == types.FieldAlias,
					pos:   i,
				}
				if prev, ok := best[key]; !ok || better(cand, prev) {
					best[key] = cand
				}
			}
			locals[w] = best
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[entityKey]scored)
	for _, local := range locals {
		for key, cand := range local {
			if prev, ok := merged[key]; !ok || better(cand, prev) {
				merged[key] = cand
			}
		}
	}

	hits := make([]types.Hit, 0, len(merged))
	for _, cand := range merged {
		if cand.hit.Score < reviewThreshold {
			continue
		}
		hits = append(hits, cand.hit)
	}
	return hits, nil
}
