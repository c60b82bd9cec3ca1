// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/pdiddy/screening-engine/internal/snapshot"
	"github.com/pdiddy/screening-engine/pkg/types"
)

func testListServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/targets.csv", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(sampleSimpleCSV))
	})
	mux.HandleFunc("/SDN.CSV", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(sampleSDNCSV))
	})
	mux.HandleFunc("/ALT.CSV", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(sampleSDNAltCSV))
	})
	mux.HandleFunc("/broken.csv", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func testSnapshotStore(t *testing.T) *snapshot.Store {
	t.Helper()
	store, err := snapshot.NewStore(types.StoreConfig{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRunCreatesSnapshot(t *testing.T) {
	ts := testListServer(t)
	store := testSnapshotStore(t)

	catalog := Catalog{Sources: []Source{
		{ID: "wb-debarred", Format: "simple-csv", URL: ts.URL + "/targets.csv"},
		{ID: "ofac-sdn", Format: "ofac-sdn", Files: map[string]string{
			RolePrimary: ts.URL + "/SDN.CSV",
			RoleAlias:   ts.URL + "/ALT.CSV",
		}},
	}}

	snap, err := Run(context.Background(), store, catalog, types.IngestConfig{}, zap.NewNop())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(snap.Manifest) != 2 {
		t.Fatalf("manifest sources = %d, want 2", len(snap.Manifest))
	}
	if snap.RecordCount != 4 {
		t.Errorf("record count = %d, want 4", snap.RecordCount)
	}

	entry := snap.Manifest["ofac-sdn"]
	if entry.RecordCount != 2 {
		t.Errorf("ofac-sdn record count = %d, want 2", entry.RecordCount)
	}
	if entry.SHA256 == "" || entry.DownloadURL != ts.URL+"/SDN.CSV" {
		t.Errorf("manifest entry = %+v", entry)
	}

	records, err := store.Records(context.Background(), snap.ID)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 4 {
		t.Errorf("stored records = %d, want 4", len(records))
	}
}

func TestRunOmitsFailedSource(t *testing.T) {
	ts := testListServer(t)
	store := testSnapshotStore(t)

	catalog := Catalog{Sources: []Source{
		{ID: "good", Format: "simple-csv", URL: ts.URL + "/targets.csv"},
		{ID: "bad", Format: "simple-csv", URL: ts.URL + "/broken.csv"},
	}}

	snap, err := Run(context.Background(), store, catalog, types.IngestConfig{}, zap.NewNop())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, ok := snap.Manifest["bad"]; ok {
		t.Error("failed source present in manifest")
	}
	if _, ok := snap.Manifest["good"]; !ok {
		t.Error("healthy source missing from manifest")
	}
}

func TestRunAllOrNothing(t *testing.T) {
	ts := testListServer(t)
	store := testSnapshotStore(t)

	catalog := Catalog{Sources: []Source{
		{ID: "good", Format: "simple-csv", URL: ts.URL + "/targets.csv"},
		{ID: "bad", Format: "simple-csv", URL: ts.URL + "/broken.csv"},
	}}

	_, err := Run(context.Background(), store, catalog, types.IngestConfig{AllOrNothing: true}, zap.NewNop())
	if err == nil {
		t.Fatal("expected error with all-or-nothing set")
	}

	snaps, listErr := store.List(context.Background())
	if listErr != nil {
		t.Fatalf("List: %v", listErr)
	}
	if len(snaps) != 0 {
		t.Errorf("snapshots = %d, want 0 after aborted run", len(snaps))
	}
}

func TestRunAllSourcesFailed(t *testing.T) {
	ts := testListServer(t)
	store := testSnapshotStore(t)

	catalog := Catalog{Sources: []Source{
		{ID: "bad", Format: "simple-csv", URL: ts.URL + "/broken.csv"},
	}}

	if _, err := Run(context.Background(), store, catalog, types.IngestConfig{}, zap.NewNop()); err == nil {
		t.Fatal("expected error when every source fails")
	}
}

func TestRunEmptyCatalog(t *testing.T) {
	store := testSnapshotStore(t)

	_, err := Run(context.Background(), store, Catalog{}, types.IngestConfig{}, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for empty catalog")
	}
}
