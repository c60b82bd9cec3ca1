// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"fmt"

	"github.com/pdiddy/screening-engine/pkg/types"
)

// bisCSVParser handles the BIS export-control screening files: the
// Entity List, the Unverified List, and the Military End User List.
// These are headered CSVs sharing one column layout; the Source List
// column names the specific list (EL, DPL, UVL, MEU) within the file.
// Some rows carry no Entity Number, so the name doubles as the entity
// id when the number is absent.
type bisCSVParser struct{}

func (bisCSVParser) Parse(sourceID string, files map[string][]byte) ([]types.EntityRecord, error) {
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
		name := pick(row, "Name", "name")
		if name == "" {
			continue
		}
		eid := pick(row, "Entity Number", "Entity_Number", "entity_number")
		if eid == "" {
			eid = name
		}
		b.addPrimary(eid, name)
		if req := pick(row, "License Requirement", "License requirement"); req != "" {
			b.addProgram(eid, req)
		}
		if pol := pick(row, "License Policy", "License policy"); pol != "" {
			b.addProgram(eid, "Policy: "+pol)
		}
		b.setRaw(eid, "source_list", pick(row, "Source List", "Source list"))
		if alt := pick(row, "Alternate Name", "Alternate name"); alt != "" {
			b.addAlias(eid, alt)
		}
		b.addAddress(eid, joinAddressParts(
			pick(row, "Address"),
			pick(row, "City"),
			pick(row, "State/Province", "State"),
			pick(row, "Postal Code"),
			pick(row, "Country"),
		))
	}
	return b.records(), nil
}
