// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/screening-engine/pkg/types"
)

func TestDefaultCatalogValid(t *testing.T) {
	c := DefaultCatalog()
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(c.Sources) == 0 {
		t.Fatal("default catalog is empty")
	}
	for _, src := range c.Sources {
		if _, err := parserFor(src.Format); err != nil {
			t.Errorf("source %s: %v", src.ID, err)
		}
	}

	ids := make(map[string]bool, len(c.Sources))
	for _, src := range c.Sources {
		ids[src.ID] = true
	}
	for _, want := range []string{"ofac-sdn", "ofac-cons", "un", "eu", "uk", "bis-el", "bis-uvl", "bis-meu", "wb-debarred"} {
		if !ids[want] {
			t.Errorf("default catalog missing source %s", want)
		}
	}
}

func TestLoadCatalogEmptyPathReturnsDefault(t *testing.T) {
	c, err := LoadCatalog("")
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(c.Sources) != len(DefaultCatalog().Sources) {
		t.Errorf("sources = %d, want default set", len(c.Sources))
	}
}

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	doc := `sources:
  - source_id: test-list
    format: simple-csv
    url: https://example.test/targets.csv
  - source_id: test-sdn
    format: ofac-sdn
    files:
      primary: https://example.test/SDN.CSV
      alias: https://example.test/ALT.CSV
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(c.Sources) != 2 {
		t.Fatalf("sources = %d, want 2", len(c.Sources))
	}
	if c.Sources[0].ID != "test-list" || c.Sources[0].Format != "simple-csv" {
		t.Errorf("source[0] = %+v", c.Sources[0])
	}
	if c.Sources[1].Files[RoleAlias] != "https://example.test/ALT.CSV" {
		t.Errorf("source[1] files = %v", c.Sources[1].Files)
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, types.ErrConfiguration) {
		t.Errorf("err = %v, want ErrConfiguration", err)
	}
}

func TestCatalogValidateRejects(t *testing.T) {
	cases := []struct {
		name    string
		catalog Catalog
	}{
		{"empty id", Catalog{Sources: []Source{{Format: "simple-csv", URL: "https://x"}}}},
		{"unknown format", Catalog{Sources: []Source{{ID: "a", Format: "pdf", URL: "https://x"}}}},
		{"no url", Catalog{Sources: []Source{{ID: "a", Format: "simple-csv"}}}},
		{"url and files", Catalog{Sources: []Source{{
			ID: "a", Format: "simple-csv", URL: "https://x",
			Files: map[string]string{RoleData: "https://y"},
		}}}},
		{"duplicate ids", Catalog{Sources: []Source{
			{ID: "a", Format: "simple-csv", URL: "https://x"},
			{ID: "a", Format: "simple-csv", URL: "https://y"},
		}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.catalog.Validate(); !errors.Is(err, types.ErrConfiguration) {
				t.Errorf("err = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestCatalogWithout(t *testing.T) {
	c := DefaultCatalog()
	trimmed := c.Without([]string{"eu", "uk"})
	if len(trimmed.Sources) != len(c.Sources)-2 {
		t.Fatalf("sources = %d, want %d", len(trimmed.Sources), len(c.Sources)-2)
	}
	for _, src := range trimmed.Sources {
		if src.ID == "eu" || src.ID == "uk" {
			t.Errorf("source %s not skipped", src.ID)
		}
	}
}
