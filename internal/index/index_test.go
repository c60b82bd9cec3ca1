package index

import (
	"testing"

	"github.com/pdiddy/screening-engine/pkg/types"
)

func sampleRecords() []types.EntityRecord {
	return []types.EntityRecord{
		{
			SourceID:       "OFAC-SDN",
			EntityID:       "25237",
			PrimaryName:    "IRAN AIR",
			AlternateNames: []string{"IRANAIR", "HOMA"},
			Programs:       []string{"IRAN"},
		},
		{
			SourceID:    "UN-SC",
			EntityID:    "QDi.001",
			PrimaryName: "Some Person",
		},
	}
}

func TestBuildCandidates(t *testing.T) {
	idx := Build(sampleRecords())

	cands := idx.Candidates()
	if len(cands) != 4 {
		t.Fatalf("len(Candidates()) = %d, want 4 (2 primaries + 2 aliases)", len(cands))
	}
	if idx.Len() != 2 {
		t.Errorf("Len() = %d, want 2", idx.Len())
	}

	first := cands[0]
	if first.Field != types.FieldPrimary || first.Name != "IRAN AIR" {
		t.Errorf("first candidate = %+v, want primary IRAN AIR", first)
	}
	if first.Record.EntityID != "25237" {
		t.Errorf("candidate record EntityID = %q, want 25237", first.Record.EntityID)
	}

	alias := cands[1]
	if alias.Field != types.FieldAlias || alias.Name != "IRANAIR" {
		t.Errorf("second candidate = %+v, want alias IRANAIR", alias)
	}
}

func TestBuildPrecomputesNormalization(t *testing.T) {
	idx := Build(sampleRecords())

	for _, c := range idx.Candidates() {
		if c.Norm.Sequence == "" {
			t.Errorf("candidate %q has no cached normalized form", c.Name)
		}
	}
	if got := idx.Candidates()[0].Norm.Sequence; got != "iran air" {
		t.Errorf("cached Sequence = %q, want %q", got, "iran air")
	}
}

func TestCandidatesRestartable(t *testing.T) {
	idx := Build(sampleRecords())

	a := idx.Candidates()
	b := idx.Candidates()
	if len(a) != len(b) {
		t.Fatalf("repeated iteration lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Name != b[i].Name {
			t.Errorf("iteration order not stable at %d: %q vs %q", i, a[i].Name, b[i].Name)
		}
	}
}

func TestBuildEmpty(t *testing.T) {
	idx := Build(nil)
	if len(idx.Candidates()) != 0 {
		t.Errorf("empty build should yield no candidates")
	}
}
