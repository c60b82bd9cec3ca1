// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest downloads watchlist publications, parses them into
// canonical entity records, and assembles the inputs for a snapshot.
// Implements: prd001-ingestion (R1-R4); docs/ARCHITECTURE § Ingestion.
package ingest

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/screening-engine/pkg/types"
)

// File roles within a source. Single-file sources use RoleData;
// OFAC-style list sets split primary names, aliases, and addresses
// across files.
const (
	RoleData    = "data"
	RolePrimary = "primary"
	RoleAlias   = "alias"
	RoleAddress = "address"
)

// Source describes one watchlist publication endpoint.
type Source struct {
	// ID is the stable source identifier recorded on every entity and
	// manifest entry, e.g. "ofac-sdn".
	ID string `yaml:"source_id"`

	// Format selects the parser: ofac-sdn, ofac-cons, un-xml, eu-csv,
	// uk-csv, bis-csv, or simple-csv.
	Format string `yaml:"format"`

	// URL is the download location for single-file sources.
	URL string `yaml:"url,omitempty"`

	// Files maps file roles to download locations for multi-file
	// sources. Set either URL or Files, not both.
	Files map[string]string `yaml:"files,omitempty"`
}

// files returns the role-to-URL map regardless of which field the
// catalog used.
func (s Source) files() map[string]string {
	if len(s.Files) > 0 {
		return s.Files
	}
	return map[string]string{RoleData: s.URL}
}

// Validate checks the source definition against the parser registry.
func (s Source) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: source with empty source_id", types.ErrConfiguration)
	}
	if _, err := parserFor(s.Format); err != nil {
		return fmt.Errorf("%w: source %s: unknown format %q", types.ErrConfiguration, s.ID, s.Format)
	}
	if s.URL == "" && len(s.Files) == 0 {
		return fmt.Errorf("%w: source %s: no url or files", types.ErrConfiguration, s.ID)
	}
	if s.URL != "" && len(s.Files) > 0 {
		return fmt.Errorf("%w: source %s: url and files are mutually exclusive", types.ErrConfiguration, s.ID)
	}
	return nil
}

// Catalog is the ordered list of sources an update run works through.
type Catalog struct {
	Sources []Source `yaml:"sources"`
}

// Validate checks every source and rejects duplicate IDs.
func (c Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Sources))
	for _, src := range c.Sources {
		if err := src.Validate(); err != nil {
			return err
		}
		if seen[src.ID] {
			return fmt.Errorf("%w: duplicate source_id %s", types.ErrConfiguration, src.ID)
		}
		seen[src.ID] = true
	}
	return nil
}

// Without returns a copy of the catalog with the named sources removed.
func (c Catalog) Without(skip []string) Catalog {
	if len(skip) == 0 {
		return c
	}
	drop := make(map[string]bool, len(skip))
	for _, id := range skip {
		drop[id] = true
	}
	out := Catalog{}
	for _, src := range c.Sources {
		if !drop[src.ID] {
			out.Sources = append(out.Sources, src)
		}
	}
	return out
}

const (
	slsDownloadBase = "https://sanctionslistservice.ofac.treas.gov/api/download"
	bisDownloadBase = "https://www.bis.gov/media/documents"
)

// DefaultCatalog returns the built-in source set: the OFAC SDN and
// consolidated lists, the UN, EU and UK consolidated lists, the BIS
// export-control lists, and the World Bank debarment list.
func DefaultCatalog() Catalog {
	return Catalog{Sources: []Source{
		{
			ID:     "ofac-sdn",
			Format: "ofac-sdn",
			Files: map[string]string{
				RolePrimary: slsDownloadBase + "/SDN.CSV",
				RoleAlias:   slsDownloadBase + "/ALT.CSV",
				RoleAddress: slsDownloadBase + "/ADD.CSV",
			},
		},
		{
			ID:     "ofac-cons",
			Format: "ofac-cons",
			Files: map[string]string{
				RolePrimary: slsDownloadBase + "/CONS_PRIM.CSV",
				RoleAlias:   slsDownloadBase + "/CONS_ALT.CSV",
			},
		},
		{
			ID:     "un",
			Format: "un-xml",
			URL:    "https://scsanctions.un.org/resources/xml/en/consolidated.xml",
		},
		{
			ID:     "eu",
			Format: "eu-csv",
			URL:    "https://webgate.ec.europa.eu/fsd/fsf/public/files/csvFullSanctionsList/content?token=dG9rZW4tMjAxNw",
		},
		{
			ID:     "uk",
			Format: "uk-csv",
			URL:    "https://sanctionslist.fcdo.gov.uk/docs/UK-Sanctions-List.csv",
		},
		{
			ID:     "bis-el",
			Format: "bis-csv",
			URL:    bisDownloadBase + "/entity-list",
		},
		{
			ID:     "bis-uvl",
			Format: "bis-csv",
			URL:    bisDownloadBase + "/unverified-list",
		},
		{
			ID:     "bis-meu",
			Format: "bis-csv",
			URL:    bisDownloadBase + "/military-end-user-list",
		},
		{
			ID:     "wb-debarred",
			Format: "simple-csv",
			URL:    "https://data.opensanctions.org/datasets/latest/worldbank_debarred/targets.simple.csv",
		},
	}}
}

// LoadCatalog reads a catalog file. An empty path returns the default
// catalog.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("%w: read catalog %s: %v", types.ErrConfiguration, path, err)
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("%w: parse catalog %s: %v", types.ErrConfiguration, path, err)
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}
