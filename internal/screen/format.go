// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screen

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pdiddy/screening-engine/pkg/types"
)

// FormatTable writes a screening result as a human-readable report to w
// (R5.1). Matches are grouped by source list, highest score first
// within each group.
func FormatTable(result types.ScreeningResult, w io.Writer) {
	fmt.Fprintf(w, "Query:    %s\n", result.Query)
	fmt.Fprintf(w, "Snapshot: %s\n", result.SnapshotID)
	fmt.Fprintf(w, "Decision: %s (review >= %g, block >= %g)\n",
		result.Decision, result.Thresholds.Review, result.Thresholds.Block)

	if len(result.Matches) == 0 {
		fmt.Fprintln(w, "\nNo matches.")
		return
	}

	bySource := make(map[string][]types.Hit)
	for _, h := range result.Matches {
		bySource[h.SourceID] = append(bySource[h.SourceID], h)
	}
	sources := make([]string, 0, len(bySource))
	for s := range bySource {
		sources = append(sources, s)
	}
	sort.Strings(sources)

	for _, src := range sources {
		fmt.Fprintf(w, "\n%s\n", src)
		fmt.Fprintln(w, strings.Repeat("-", 96))
		fmt.Fprintf(w, "%-6s  %-14s  %-44s  %-7s  %s\n",
			"Score", "Entity", "Matched Name", "Field", "Programs")
		for _, h := range bySource[src] {
			fmt.Fprintf(w, "%-6.1f  %-14s  %-44s  %-7s  %s\n",
				h.Score, h.EntityID, Truncate(h.MatchedName, 44), h.MatchedField, strings.Join(h.Programs, ", "))
		}
	}

	fmt.Fprintf(w, "\n%d matches at or above the review threshold\n", len(result.Matches))
}

// Truncate shortens s to at most max display columns, ending in "..."
// when cut. It counts runes, not bytes, so multibyte names are never
// split mid-character.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// FormatJSON writes the full result as indented JSON to w (R5.2).
func FormatJSON(result types.ScreeningResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
