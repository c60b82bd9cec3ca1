package score

import (
	"math"
	"testing"

	"github.com/pdiddy/screening-engine/internal/normalize"
)

func sc(a, b string) float64 {
	return Score(normalize.Name(a), normalize.Name(b), DefaultWeights)
}

func TestScoreIdentity(t *testing.T) {
	for _, s := range []string{"Iran Air", "ACME, Inc.", "a", "Banco Delta Asia S.A.R.L."} {
		if got := sc(s, s); got != 100 {
			t.Errorf("Score(%q, %q) = %v, want 100", s, s, got)
		}
	}
}

func TestScoreSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"Iran Air", "Air Iran"},
		{"Bank Melli", "Melli Bank PLC"},
		{"ACME", "Zzyxqville Corp"},
		{"", "something"},
	}
	for _, p := range pairs {
		xy := sc(p[0], p[1])
		yx := sc(p[1], p[0])
		if xy != yx {
			t.Errorf("Score(%q,%q)=%v != Score(%q,%q)=%v", p[0], p[1], xy, p[1], p[0], yx)
		}
	}
}

func TestTokenSetReordering(t *testing.T) {
	// Identical token sets in any order score 100 on the token
	// component, so the total is at least the token weight share.
	a := normalize.Name("Iran Air")
	b := normalize.Name("Air Iran")
	if got := TokenSet(a, b); got != 100 {
		t.Errorf("TokenSet = %v, want 100", got)
	}
	if got := Score(a, b, DefaultWeights); got < 80 {
		t.Errorf("Score = %v, want >= 80", got)
	}
}

func TestTokenSetPartialOverlap(t *testing.T) {
	// {bank, melli} vs {bank, melli, iran}: Dice = 2*2/(2+3) = 0.8.
	a := normalize.Name("Bank Melli")
	b := normalize.Name("Bank Melli Iran")
	if got := TokenSet(a, b); math.Abs(got-80) > 1e-9 {
		t.Errorf("TokenSet = %v, want 80", got)
	}
}

func TestTokenSetDisjoint(t *testing.T) {
	a := normalize.Name("Zzyxqville Nonexistent Corp")
	b := normalize.Name("Iran Air")
	if got := TokenSet(a, b); got != 0 {
		t.Errorf("TokenSet = %v, want 0", got)
	}
}

func TestEmptyInputs(t *testing.T) {
	empty := normalize.Name("")
	nonEmpty := normalize.Name("Iran Air")

	if got := Score(empty, empty, DefaultWeights); got != 0 {
		t.Errorf("Score(empty, empty) = %v, want 0", got)
	}
	if got := Score(nonEmpty, empty, DefaultWeights); got != 0 {
		t.Errorf("Score(nonEmpty, empty) = %v, want 0", got)
	}
}

func TestSequenceSimilarity(t *testing.T) {
	// Same letters, same order, different word boundaries still share a
	// long common subsequence.
	a := normalize.Name("Rosneft")
	b := normalize.Name("Rosnef")
	got := Sequence(a, b)
	// LCS("rosneft","rosnef") = 6, 2*6/(7+6) ≈ 92.3.
	want := 200 * 6.0 / 13.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Sequence = %v, want %v", got, want)
	}
}

func TestSequenceRewardsOrder(t *testing.T) {
	q := normalize.Name("iran air")
	same := Sequence(q, normalize.Name("iran air"))
	reordered := Sequence(q, normalize.Name("air iran"))
	if same != 100 {
		t.Errorf("Sequence identical = %v, want 100", same)
	}
	if reordered >= same {
		t.Errorf("reordered sequence %v should score below identical %v", reordered, same)
	}
}

func TestScoreRounding(t *testing.T) {
	got := sc("Bank Melli", "Bank Melli Iran")
	if math.Round(got*10) != got*10 {
		t.Errorf("Score = %v, not rounded to one decimal", got)
	}
	if got < 0 || got > 100 {
		t.Errorf("Score = %v, out of range", got)
	}
}

func TestWeightsValidate(t *testing.T) {
	tests := []struct {
		name    string
		w       Weights
		wantErr bool
	}{
		{"default", DefaultWeights, false},
		{"equal split", Weights{Token: 1, Sequence: 1}, false},
		{"token only", Weights{Token: 1}, false},
		{"zero sum", Weights{}, true},
		{"negative", Weights{Token: -0.5, Sequence: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.w.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCustomWeightsKeepIdentity(t *testing.T) {
	w := Weights{Token: 3, Sequence: 1}
	n := normalize.Name("Iran Air")
	if got := Score(n, n, w); got != 100 {
		t.Errorf("Score(x, x) with custom weights = %v, want 100", got)
	}
}

func TestLCSLength(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"abc", "abc", 3},
		{"abc", "axc", 2},
		{"abc", "xyz", 0},
		{"", "abc", 0},
		{"iran air", "air iran", 5}, // "ran a" and others of length 5
	}
	for _, tt := range tests {
		if got := lcsLength([]rune(tt.a), []rune(tt.b)); got != tt.want {
			t.Errorf("lcsLength(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
