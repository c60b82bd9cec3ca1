// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index builds the immutable in-memory candidate index for one
// snapshot. Implements: prd002-screening (R3.1-R3.4);
//
//	docs/ARCHITECTURE § Entity Index.
//
// Normalization runs once at build time and is cached: screening scores
// every candidate on every call, so re-normalizing per query would
// dominate the cost. After Build the index is never mutated, which
// makes concurrent reads from parallel screening calls safe without
// locking.
package index

import (
	"github.com/pdiddy/screening-engine/internal/normalize"
	"github.com/pdiddy/screening-engine/pkg/types"
)

// Candidate is one name to match against: either a record's primary
// name or one of its aliases, with the normalized form precomputed.
type Candidate struct {
	// Record points at the owning entity record.
	Record *types.EntityRecord

	// Name is the candidate name exactly as listed.
	Name string

	// Field reports whether Name is the primary name or an alias.
	Field types.MatchField

	// Norm is the cached normalized form of Name.
	Norm normalize.NormalizedName
}

// Index holds every candidate name of a snapshot's records. Immutable
// after Build.
type Index struct {
	records    []types.EntityRecord
	candidates []Candidate
}

// Build constructs the index, normalizing the primary name and every
// alias of each record exactly once.
func Build(records []types.EntityRecord) *Index {
	idx := &Index{records: records}

	n := 0
	for _, r := range records {
		n += 1 + len(r.AlternateNames)
	}
	idx.candidates = make([]Candidate, 0, n)

	for i := range idx.records {
		r := &idx.records[i]
		idx.candidates = append(idx.candidates, Candidate{
			Record: r,
			Name:   r.PrimaryName,
			Field:  types.FieldPrimary,
			Norm:   normalize.Name(r.PrimaryName),
		})
		for _, alias := range r.AlternateNames {
			idx.candidates = append(idx.candidates, Candidate{
				Record: r,
				Name:   alias,
				Field:  types.FieldAlias,
				Norm:   normalize.Name(alias),
			})
		}
	}
	return idx
}

// Candidates returns the full candidate list in deterministic record
// order: one entry per primary name and per alias. Callers must not
// modify the returned slice.
func (idx *Index) Candidates() []Candidate {
	return idx.candidates
}

// Len returns the number of indexed records.
func (idx *Index) Len() int {
	return len(idx.records)
}
