// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize canonicalizes entity names into a comparable form.
// Implements: prd002-screening (R1.1-R1.5);
//
//	docs/ARCHITECTURE § Normalization.
package normalize

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizedName is the comparable form of a name string. Derived, never
// persisted. Normalization is a pure function of its input: the same
// string always yields the same NormalizedName, with no locale- or
// time-dependent behavior.
type NormalizedName struct {
	// Tokens is the set of unique lowercase word tokens, sorted for
	// deterministic iteration.
	Tokens []string

	// Sequence is the cleaned string with single spaces, order preserved.
	Sequence string
}

// IsEmpty reports whether nothing survived cleaning.
func (n NormalizedName) IsEmpty() bool {
	return n.Sequence == ""
}

// Name canonicalizes s: NFKC compatibility fold (so full-width and other
// compatibility forms compare equal), lowercase, "&" spelled out as
// "and", every rune outside letters/digits/whitespace dropped, and
// whitespace collapsed. It never fails; input that cleans to nothing
// yields an empty NormalizedName.
func Name(s string) NormalizedName {
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "&", " and ")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	sequence := strings.Join(fields, " ")

	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	sort.Strings(tokens)

	return NormalizedName{Tokens: tokens, Sequence: sequence}
}
