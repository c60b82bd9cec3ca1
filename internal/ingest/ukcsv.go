// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"fmt"
	"strings"

	"github.com/pdiddy/screening-engine/pkg/types"
)

// ukCSVParser handles the UK (FCDO) sanctions list. The file opens
// with a "Report Date:" preamble line before the header row; names are
// split across Name 1 through Name 5 plus the Name 6 surname column.
type ukCSVParser struct{}

func (ukCSVParser) Parse(sourceID string, files map[string][]byte) ([]types.EntityRecord, error) {
	data, ok := files[RoleData]
	if !ok {
		return nil, fmt.Errorf("source %s: missing data file", sourceID)
	}

	text := string(data)
	if strings.HasPrefix(text, "Report Date") {
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			text = text[i+1:]
		} else {
			text = ""
		}
	}

	rows, err := readCSVRows([]byte(text), nil)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", sourceID, err)
	}

	b := newEntityBuilder(sourceID)
	for _, row := range rows {
		uid := strings.TrimSpace(row["Unique ID"])
		if uid == "" {
			continue
		}
		name := joinNameParts(row["Name 1"], row["Name 2"], row["Name 3"],
			row["Name 4"], row["Name 5"], row["Name 6"])
		if name == "" {
			continue
		}
		b.addPrimary(uid, name)
		if regime := strings.TrimSpace(row["Regime Name"]); regime != "" {
			b.addProgram(uid, "UK: "+regime)
		}
		if sanc := strings.TrimSpace(row["Sanctions Imposed"]); sanc != "" {
			b.addProgram(uid, sanc)
		}
		b.setRaw(uid, "group_type", strings.TrimSpace(row["Group Type"]))
	}
	return b.records(), nil
}
