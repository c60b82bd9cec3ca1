// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/pdiddy/screening-engine/pkg/types"
)

// OFAC uses "-0-" as the null marker in its CSV exports.
const ofacNull = "-0-"

// The SDN list set ships without header rows; column layouts follow the
// OFAC file specification.
var (
	sdnColumns = []string{"ent_num", "SDN_Name", "SDN_Type", "Program", "Title", "Call_Sign",
		"Vess_Type", "Tonnage", "GRT", "Vess_Flag", "Vess_Owner", "Remarks"}
	sdnAltColumns = []string{"ent_num", "alt_num", "alt_type", "alt_name", "remarks"}
	sdnAddColumns = []string{"ent_num", "add_num", "Address", "CityStateProvincePostalCode", "Country", "remarks"}
)

// readCSVRows parses CSV bytes into maps keyed by column name. When
// fieldnames is nil the first row is the header. Rows shorter than the
// header are padded so tolerant column picks never panic; values are
// whitespace-trimmed.
func readCSVRows(data []byte, fieldnames []string) ([]map[string]string, error) {
	return readDelimitedRows(data, fieldnames, ',')
}

func readDelimitedRows(data []byte, fieldnames []string, comma rune) ([]map[string]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(all) == 0 {
		return nil, nil
	}

	header := fieldnames
	if header == nil {
		header = all[0]
		for i := range header {
			header[i] = strings.TrimSpace(header[i])
		}
		all = all[1:]
	}

	rows := make([]map[string]string, 0, len(all))
	for _, rec := range all {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			v := ""
			if i < len(rec) {
				v = strings.TrimSpace(rec[i])
			}
			row[col] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ofacValue returns a cell with the OFAC null marker treated as empty.
func ofacValue(row map[string]string, key string) string {
	v := row[key]
	if v == ofacNull {
		return ""
	}
	return v
}

// pick returns the first non-empty cell among candidate column names.
// Column naming drifts across OFAC export generations.
func pick(row map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := ofacValue(row, k); v != "" {
			return v
		}
	}
	return ""
}

// ofacSDNParser handles the headerless SDN list set: SDN.CSV primary
// rows, ALT.CSV alias rows, and ADD.CSV address rows.
type ofacSDNParser struct{}

func (ofacSDNParser) Parse(sourceID string, files map[string][]byte) ([]types.EntityRecord, error) {
	b := newEntityBuilder(sourceID)

	prim, ok := files[RolePrimary]
	if !ok {
		return nil, fmt.Errorf("source %s: missing primary file", sourceID)
	}
	rows, err := readCSVRows(prim, sdnColumns)
	if err != nil {
		return nil, fmt.Errorf("source %s primary: %w", sourceID, err)
	}
	for _, row := range rows {
		eid := ofacValue(row, "ent_num")
		name := ofacValue(row, "SDN_Name")
		if eid == "" || name == "" {
			continue
		}
		b.addPrimary(eid, name)
		if p := ofacValue(row, "Program"); p != "" {
			b.addProgram(eid, p)
		}
		b.setRaw(eid, "type", ofacValue(row, "SDN_Type"))
		b.setRaw(eid, "title", ofacValue(row, "Title"))
		b.setRaw(eid, "remarks", ofacValue(row, "Remarks"))
	}

	if alt, ok := files[RoleAlias]; ok {
		rows, err := readCSVRows(alt, sdnAltColumns)
		if err != nil {
			return nil, fmt.Errorf("source %s alias: %w", sourceID, err)
		}
		for _, row := range rows {
			b.addAlias(ofacValue(row, "ent_num"), ofacValue(row, "alt_name"))
		}
	}

	if add, ok := files[RoleAddress]; ok {
		rows, err := readCSVRows(add, sdnAddColumns)
		if err != nil {
			return nil, fmt.Errorf("source %s address: %w", sourceID, err)
		}
		for _, row := range rows {
			b.addAddress(ofacValue(row, "ent_num"), joinAddressParts(
				ofacValue(row, "Address"),
				ofacValue(row, "CityStateProvincePostalCode"),
				ofacValue(row, "Country"),
			))
		}
	}

	return b.records(), nil
}

// ofacConsParser handles the consolidated (non-SDN) list set. Unlike
// the SDN files these carry header rows, with column names that vary
// by export generation.
type ofacConsParser struct{}

func (ofacConsParser) Parse(sourceID string, files map[string][]byte) ([]types.EntityRecord, error) {
	b := newEntityBuilder(sourceID)

	prim, ok := files[RolePrimary]
	if !ok {
		return nil, fmt.Errorf("source %s: missing primary file", sourceID)
	}
	rows, err := readCSVRows(prim, nil)
	if err != nil {
		return nil, fmt.Errorf("source %s primary: %w", sourceID, err)
	}
	for _, row := range rows {
		eid := pick(row, "Entity Number", "Entity_Number", "entity_number", "EntNum", "ent_num", "ID", "Id")
		name := pick(row, "Name", "name", "Entity Name", "entity_name", "SDN_Name")
		if eid == "" || name == "" {
			continue
		}
		b.addPrimary(eid, name)
		if p := pick(row, "Program", "Programs", "program", "Sanctions Program"); p != "" {
			b.addProgram(eid, p)
		}
		b.setRaw(eid, "type", pick(row, "Type", "SDN_Type"))
	}

	if alt, ok := files[RoleAlias]; ok {
		rows, err := readCSVRows(alt, nil)
		if err != nil {
			return nil, fmt.Errorf("source %s alias: %w", sourceID, err)
		}
		for _, row := range rows {
			eid := pick(row, "Entity Number", "Entity_Number", "entity_number", "EntNum", "ent_num", "ID", "Id")
			name := pick(row, "Alternate Name", "alt_name", "Name", "name")
			b.addAlias(eid, name)
		}
	}

	return b.records(), nil
}
