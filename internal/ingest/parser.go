// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"fmt"
	"strings"

	"github.com/pdiddy/screening-engine/pkg/types"
)

// Parser converts one source's downloaded files into entity records.
// The files map is keyed by role (RoleData, or RolePrimary/RoleAlias
// for split list sets).
type Parser interface {
	Parse(sourceID string, files map[string][]byte) ([]types.EntityRecord, error)
}

func parserFor(format string) (Parser, error) {
	switch format {
	case "ofac-sdn":
		return ofacSDNParser{}, nil
	case "ofac-cons":
		return ofacConsParser{}, nil
	case "un-xml":
		return unXMLParser{}, nil
	case "eu-csv":
		return euCSVParser{}, nil
	case "uk-csv":
		return ukCSVParser{}, nil
	case "simple-csv":
		return simpleCSVParser{}, nil
	case "bis-csv":
		return bisCSVParser{}, nil
	}
	return nil, fmt.Errorf("unknown parser format %q", format)
}

// entityBuilder accumulates names and programs per entity while a
// parser walks rows, then emits records in first-seen order so parse
// output is deterministic.
type entityBuilder struct {
	sourceID string
	order    []string
	ents     map[string]*types.EntityRecord
	addrs    map[string][]string
}

func newEntityBuilder(sourceID string) *entityBuilder {
	return &entityBuilder{
		sourceID: sourceID,
		ents:     make(map[string]*types.EntityRecord),
		addrs:    make(map[string][]string),
	}
}

func (b *entityBuilder) ensure(entityID string) *types.EntityRecord {
	if ent, ok := b.ents[entityID]; ok {
		return ent
	}
	ent := &types.EntityRecord{SourceID: b.sourceID, EntityID: entityID}
	b.ents[entityID] = ent
	b.order = append(b.order, entityID)
	return ent
}

// addPrimary sets the entity's primary name. Repeated primary rows for
// the same entity become alternates.
func (b *entityBuilder) addPrimary(entityID, name string) {
	if entityID == "" || name == "" {
		return
	}
	ent := b.ensure(entityID)
	if ent.PrimaryName == "" {
		ent.PrimaryName = name
		return
	}
	if ent.PrimaryName != name {
		b.addAlias(entityID, name)
	}
}

func (b *entityBuilder) addAlias(entityID, name string) {
	if entityID == "" || name == "" {
		return
	}
	ent := b.ensure(entityID)
	if name == ent.PrimaryName {
		return
	}
	for _, a := range ent.AlternateNames {
		if a == name {
			return
		}
	}
	ent.AlternateNames = append(ent.AlternateNames, name)
}

func (b *entityBuilder) addProgram(entityID, program string) {
	if entityID == "" || program == "" {
		return
	}
	ent := b.ensure(entityID)
	for _, p := range ent.Programs {
		if p == program {
			return
		}
	}
	ent.Programs = append(ent.Programs, program)
}

func (b *entityBuilder) setRaw(entityID, key, value string) {
	if entityID == "" || key == "" || value == "" {
		return
	}
	ent := b.ensure(entityID)
	if ent.RawFields == nil {
		ent.RawFields = make(map[string]string)
	}
	ent.RawFields[key] = value
}

// addAddress records a distinct address line for the entity. Address
// rows referencing an unknown entity are discarded when the records
// are emitted.
func (b *entityBuilder) addAddress(entityID, addr string) {
	if entityID == "" || addr == "" {
		return
	}
	for _, a := range b.addrs[entityID] {
		if a == addr {
			return
		}
	}
	b.addrs[entityID] = append(b.addrs[entityID], addr)
}

// joinAddressParts assembles one address line from its non-empty parts.
func joinAddressParts(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

// records returns completed entities. Entities that never received a
// primary name (alias rows referencing unknown IDs) are dropped.
// Collected addresses land in raw_fields under "addresses".
func (b *entityBuilder) records() []types.EntityRecord {
	out := make([]types.EntityRecord, 0, len(b.order))
	for _, id := range b.order {
		ent := b.ents[id]
		if ent.PrimaryName == "" {
			continue
		}
		if addrs := b.addrs[id]; len(addrs) > 0 {
			if ent.RawFields == nil {
				ent.RawFields = make(map[string]string)
			}
			ent.RawFields["addresses"] = strings.Join(addrs, "; ")
		}
		out = append(out, *ent)
	}
	return out
}
