// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score computes the deterministic similarity between two
// normalized names. Implements: prd002-screening (R2.1-R2.5);
//
//	docs/ARCHITECTURE § Scoring.
//
// The score is a weighted combination of two components in [0,100]:
//
//   - token-set similarity: the Dice coefficient over the token sets,
//     2·|A∩B| / (|A|+|B|). Word order is irrelevant, so "Iran Air" and
//     "Air Iran" score 100 on this component. The primary signal.
//   - sequence similarity: a normalized longest-common-subsequence
//     ratio over the cleaned character strings,
//     2·LCS(a,b) / (len(a)+len(b)). Rewards literal spelling closeness
//     and shared in-order substrings; the tie-breaking signal.
//
// Both components are symmetric and yield 100 for identical inputs, so
// the combined score is too.
package score

import (
	"fmt"
	"math"

	"github.com/pdiddy/screening-engine/internal/normalize"
	"github.com/pdiddy/screening-engine/pkg/types"
)

// Weights holds the component weights. The final score is the weighted
// mean, so any positive weights keep it in [0,100] with identity at 100.
type Weights struct {
	Token    float64
	Sequence float64
}

// DefaultWeights is the documented 80/20 policy split.
var DefaultWeights = Weights{Token: 0.8, Sequence: 0.2}

// FromConfig builds Weights from configuration, falling back to the
// defaults when both weights are unset.
func FromConfig(cfg types.ScoringConfig) Weights {
	if cfg.TokenWeight == 0 && cfg.SequenceWeight == 0 {
		return DefaultWeights
	}
	return Weights{Token: cfg.TokenWeight, Sequence: cfg.SequenceWeight}
}

// Validate rejects weights that cannot produce a well-defined score.
func (w Weights) Validate() error {
	if w.Token < 0 || w.Sequence < 0 || w.Token+w.Sequence <= 0 {
		return fmt.Errorf("%w: scoring weights token=%g sequence=%g must be non-negative with a positive sum",
			types.ErrConfiguration, w.Token, w.Sequence)
	}
	return nil
}

// Score returns the similarity between query and candidate in [0,100],
// rounded to one decimal place. Deterministic and symmetric in its
// arguments; safe for concurrent use.
func Score(query, candidate normalize.NormalizedName, w Weights) float64 {
	token := TokenSet(query, candidate)
	seq := Sequence(query, candidate)

	s := (w.Token*token + w.Sequence*seq) / (w.Token + w.Sequence)
	s = math.Round(s*10) / 10
	return math.Min(100, math.Max(0, s))
}

// TokenSet returns the Dice coefficient over the token sets, scaled to
// [0,100]. Zero when both sets are empty.
func TokenSet(a, b normalize.NormalizedName) float64 {
	if len(a.Tokens) == 0 && len(b.Tokens) == 0 {
		return 0
	}
	inter := intersectionSize(a.Tokens, b.Tokens)
	return 200 * float64(inter) / float64(len(a.Tokens)+len(b.Tokens))
}

// Sequence returns the normalized LCS similarity over the cleaned
// strings, scaled to [0,100]. Zero when both strings are empty.
func Sequence(a, b normalize.NormalizedName) float64 {
	if a.Sequence == "" && b.Sequence == "" {
		return 0
	}
	ra := []rune(a.Sequence)
	rb := []rune(b.Sequence)
	lcs := lcsLength(ra, rb)
	return 200 * float64(lcs) / float64(len(ra)+len(rb))
}

// intersectionSize counts common elements of two sorted, deduplicated
// slices by merge walk.
func intersectionSize(a, b []string) int {
	var n, i, j int
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			n++
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return n
}

// lcsLength computes the longest-common-subsequence length with a
// two-row dynamic program, O(len(a)·len(b)) time and O(min) space.
func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) > len(a) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
