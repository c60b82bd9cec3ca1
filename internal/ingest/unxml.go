// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/pdiddy/screening-engine/pkg/types"
)

// UN Security Council consolidated list XML. Individuals carry up to
// four name parts; entities put the full name in FIRST_NAME.
type unDocument struct {
	Individuals []unIndividual `xml:"INDIVIDUALS>INDIVIDUAL"`
	Entities    []unEntity     `xml:"ENTITIES>ENTITY"`
}

type unIndividual struct {
	DataID        string    `xml:"DATAID"`
	FirstName     string    `xml:"FIRST_NAME"`
	SecondName    string    `xml:"SECOND_NAME"`
	ThirdName     string    `xml:"THIRD_NAME"`
	FourthName    string    `xml:"FOURTH_NAME"`
	ListType      string    `xml:"UN_LIST_TYPE"`
	Aliases       []unAlias `xml:"INDIVIDUAL_ALIAS"`
	Nationalities []string  `xml:"NATIONALITY>VALUE"`
}

type unEntity struct {
	DataID    string      `xml:"DATAID"`
	FirstName string      `xml:"FIRST_NAME"`
	ListType  string      `xml:"UN_LIST_TYPE"`
	Aliases   []unAlias   `xml:"ENTITY_ALIAS"`
	Addresses []unAddress `xml:"ENTITY_ADDRESS"`
}

type unAlias struct {
	Quality   string `xml:"QUALITY"`
	AliasName string `xml:"ALIAS_NAME"`
}

type unAddress struct {
	Street        string `xml:"STREET"`
	City          string `xml:"CITY"`
	StateProvince string `xml:"STATE_PROVINCE"`
	Country       string `xml:"COUNTRY"`
}

type unXMLParser struct{}

func (unXMLParser) Parse(sourceID string, files map[string][]byte) ([]types.EntityRecord, error) {
	data, ok := files[RoleData]
	if !ok {
		return nil, fmt.Errorf("source %s: missing data file", sourceID)
	}

	var doc unDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("source %s: parse xml: %w", sourceID, err)
	}

	b := newEntityBuilder(sourceID)

	for _, ind := range doc.Individuals {
		eid := strings.TrimSpace(ind.DataID)
		name := joinNameParts(ind.FirstName, ind.SecondName, ind.ThirdName, ind.FourthName)
		if eid == "" || name == "" {
			continue
		}
		b.addPrimary(eid, name)
		if lt := strings.TrimSpace(ind.ListType); lt != "" {
			b.addProgram(eid, "UN: "+lt)
		}
		for _, a := range ind.Aliases {
			b.addAlias(eid, strings.TrimSpace(a.AliasName))
		}
		for _, nat := range ind.Nationalities {
			if nat = strings.TrimSpace(nat); nat != "" {
				b.addAddress(eid, "Nationality: "+nat)
			}
		}
		b.setRaw(eid, "type", "individual")
	}

	for _, ent := range doc.Entities {
		eid := strings.TrimSpace(ent.DataID)
		name := strings.TrimSpace(ent.FirstName)
		if eid == "" || name == "" {
			continue
		}
		b.addPrimary(eid, name)
		if lt := strings.TrimSpace(ent.ListType); lt != "" {
			b.addProgram(eid, "UN: "+lt)
		}
		for _, a := range ent.Aliases {
			b.addAlias(eid, strings.TrimSpace(a.AliasName))
		}
		for _, addr := range ent.Addresses {
			b.addAddress(eid, joinAddressParts(addr.Street, addr.City, addr.StateProvince, addr.Country))
		}
		b.setRaw(eid, "type", "entity")
	}

	return b.records(), nil
}

func joinNameParts(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
