// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"fmt"
	"strings"

	"github.com/pdiddy/screening-engine/pkg/types"
)

// simpleCSVParser handles open-data exports with an id, a name, and
// semicolon-packed aliases and programs columns, e.g. the OpenSanctions
// targets.simple.csv shape used by the World Bank debarment list.
type simpleCSVParser struct{}

func (simpleCSVParser) Parse(sourceID string, files map[string][]byte) ([]types.EntityRecord, error) {
	data, ok := files[RoleData]
	if !ok {
		return nil, fmt.Errorf("source %s: missing data file", sourceID)
	}

	rows, err := readCSVRows(data, nil)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", sourceID, err)
	}

	b := newEntityBuilder(sourceID)
	for _, row := range rows {
		eid := pick(row, "id", "ID", "Id")
		name := pick(row, "name", "Name", "caption")
		if eid == "" || name == "" {
			continue
		}
		b.addPrimary(eid, name)
		for _, alias := range splitPacked(pick(row, "aliases", "Aliases", "alias")) {
			b.addAlias(eid, alias)
		}
		for _, prog := range splitPacked(pick(row, "programs", "Programs", "sanctions", "dataset")) {
			b.addProgram(eid, prog)
		}
		b.setRaw(eid, "schema", pick(row, "schema", "Schema", "type"))
	}
	return b.records(), nil
}

// splitPacked splits a semicolon-packed multi-value cell.
func splitPacked(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
