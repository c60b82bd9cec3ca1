// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pdiddy/screening-engine/pkg/types"
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// euCSVParser handles the EU financial sanctions full list: semicolon
// delimited, UTF-8 with BOM. Rows are name-alias rows keyed by
// Naal_logical_id; the first row per entity supplies the primary name
// and later rows become alternates.
type euCSVParser struct{}

func (euCSVParser) Parse(sourceID string, files map[string][]byte) ([]types.EntityRecord, error) {
	data, ok := files[RoleData]
	if !ok {
		return nil, fmt.Errorf("source %s: missing data file", sourceID)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	rows, err := readDelimitedRows(data, nil, ';')
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", sourceID, err)
	}

	b := newEntityBuilder(sourceID)
	for _, row := range rows {
		// Entity_logical_id appears twice in the header; the name-alias
		// logical id is the stable key.
		eid := strings.TrimSpace(row["Naal_logical_id"])
		if eid == "" {
			continue
		}
		name := strings.TrimSpace(row["Naal_wholename"])
		if name == "" {
			last := strings.TrimSpace(row["Naal_lastname"])
			first := strings.TrimSpace(row["Naal_firstname"])
			name = strings.TrimSpace(first + " " + last)
		}
		if name == "" {
			continue
		}
		b.addPrimary(eid, name)
		if prog := strings.TrimSpace(row["Programme"]); prog != "" {
			b.addProgram(eid, "EU: "+prog)
		}
	}
	return b.records(), nil
}
