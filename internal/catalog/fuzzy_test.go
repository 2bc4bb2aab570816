package catalog

import (
	"math"
	"testing"
)

func TestFindByNameExact(t *testing.T) {
	records := Sample()

	r := FindByName(records, "Plai")
	if r == nil || r.Name != "Plai" {
		t.Fatalf("expected Plai, got %v", r)
	}

	// Case-insensitive
	r = FindByName(records, "PLAI")
	if r == nil || r.Name != "Plai" {
		t.Fatalf("expected Plai for upper-cased query, got %v", r)
	}
}

func TestFindByNameSubstring(t *testing.T) {
	records := Sample()

	r := FindByName(records, "chat")
	if r == nil || r.Name != "ChatGPT" {
		t.Fatalf("expected ChatGPT for substring query, got %v", r)
	}
}

func TestFindByNameFuzzy(t *testing.T) {
	records := Sample()

	// One typo within the similarity threshold resolves.
	r := FindByName(records, "Claudee")
	if r == nil || r.Name != "Claude" {
		t.Fatalf("expected Claude for near-miss query, got %v", r)
	}

	r = FindByName(records, "plaii")
	if r == nil || r.Name != "Plai" {
		t.Fatalf("expected Plai for near-miss query, got %v", r)
	}
}

func TestFindByNameNoMatch(t *testing.T) {
	records := Sample()

	if r := FindByName(records, "xyzzyx"); r != nil {
		t.Errorf("expected nil for unrelated query, got %s", r.Name)
	}
	if r := FindByName(records, ""); r != nil {
		t.Errorf("expected nil for empty query, got %s", r.Name)
	}
	if r := FindByName(nil, "Plai"); r != nil {
		t.Errorf("expected nil for empty catalog, got %s", r.Name)
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"plai", "plai", 1.0},
		{"plaii", "plai", 0.8},
		{"", "", 1.0},
		{"abc", "", 0.0},
	}

	for _, tt := range tests {
		got := Similarity(tt.a, tt.b)
		if math.Abs(got-tt.want) > 0.001 {
			t.Errorf("Similarity(%q, %q) = %v, expected %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"kitten", "sitting", 3},
		{"plai", "plai", 0},
		{"", "abc", 3},
		{"abc", "", 3},
	}

	for _, tt := range tests {
		if got := editDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("editDistance(%q, %q) = %d, expected %d", tt.a, tt.b, got, tt.want)
		}
	}
}
