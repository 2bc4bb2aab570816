package catalog

import "testing"

func TestIndexSearch(t *testing.T) {
	index, err := NewIndex(Sample())
	if err != nil {
		t.Fatalf("NewIndex failed: %v", err)
	}
	defer index.Close()

	hits, err := index.Search("analytics dashboards", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) == 0 {
		t.Fatal("expected at least one hit")
	}

	found := false
	for _, hit := range hits {
		if hit.Record.Name == "Plai" {
			found = true
		}
		if hit.Score <= 0 {
			t.Errorf("hit %s has non-positive score %v", hit.Record.Name, hit.Score)
		}
	}
	if !found {
		t.Error("expected Plai among analytics hits")
	}
}

func TestIndexSearchNoHits(t *testing.T) {
	index, err := NewIndex(Sample())
	if err != nil {
		t.Fatalf("NewIndex failed: %v", err)
	}
	defer index.Close()

	hits, err := index.Search("zvqxkw", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("expected no hits for gibberish, got %d", len(hits))
	}
}

func TestIndexCountAndReindex(t *testing.T) {
	records := Sample()
	index, err := NewIndex(records)
	if err != nil {
		t.Fatalf("NewIndex failed: %v", err)
	}
	defer index.Close()

	count, err := index.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != uint64(len(records)) {
		t.Errorf("expected %d indexed records, got %d", len(records), count)
	}

	if err := index.Reindex(records[:2]); err != nil {
		t.Fatalf("Reindex failed: %v", err)
	}
	count, err = index.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 indexed records after reindex, got %d", count)
	}
}
