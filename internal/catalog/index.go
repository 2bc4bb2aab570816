package catalog

import (
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

// Index is an in-memory full-text index over the catalog snapshot, used for
// free-text catalog search and as a first pass when resolving loose tool
// references.
type Index struct {
	bleveIndex bleve.Index
	records    map[string]Record
	mu         sync.RWMutex
}

// SearchHit is one index match with its relevance score.
type SearchHit struct {
	Record Record
	Score  float64
}

// NewIndex builds an in-memory index over the given records.
func NewIndex(records []Record) (*Index, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog index: %w", err)
	}

	idx := &Index{
		bleveIndex: index,
		records:    make(map[string]Record, len(records)),
	}
	if err := idx.Reindex(records); err != nil {
		idx.Close()
		return nil, err
	}
	return idx, nil
}

// buildIndexMapping creates the Bleve mapping for catalog documents.
func buildIndexMapping() mapping.IndexMapping {
	recordMapping := bleve.NewDocumentMapping()

	nameField := bleve.NewTextFieldMapping()
	recordMapping.AddFieldMappingsAt("name", nameField)

	purposeField := bleve.NewTextFieldMapping()
	recordMapping.AddFieldMappingsAt("purpose", purposeField)

	bestForField := bleve.NewTextFieldMapping()
	recordMapping.AddFieldMappingsAt("bestFor", bestForField)

	tagsField := bleve.NewTextFieldMapping()
	recordMapping.AddFieldMappingsAt("tags", tagsField)

	capsField := bleve.NewTextFieldMapping()
	recordMapping.AddFieldMappingsAt("capabilities", capsField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", recordMapping)
	return indexMapping
}

// Reindex replaces the indexed snapshot with a new one.
func (i *Index) Reindex(records []Record) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	batch := i.bleveIndex.NewBatch()
	for id := range i.records {
		batch.Delete(id)
	}

	fresh := make(map[string]Record, len(records))
	for _, r := range records {
		doc := map[string]interface{}{
			"name":         r.Name,
			"purpose":      r.Purpose,
			"bestFor":      r.BestFor,
			"tags":         r.Tags,
			"capabilities": r.CapabilityLabels(),
		}
		if err := batch.Index(r.ID, doc); err != nil {
			return fmt.Errorf("failed to index record %s: %w", r.ID, err)
		}
		fresh[r.ID] = r
	}

	if err := i.bleveIndex.Batch(batch); err != nil {
		return fmt.Errorf("failed to batch index catalog: %w", err)
	}
	i.records = fresh
	return nil
}

// Search runs a BM25 match query over the catalog and returns up to limit hits.
func (i *Index) Search(text string, limit int) ([]SearchHit, error) {
	if limit <= 0 {
		limit = 10
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	request := bleve.NewSearchRequestOptions(bleve.NewMatchQuery(text), limit, 0, false)
	results, err := i.bleveIndex.Search(request)
	if err != nil {
		return nil, fmt.Errorf("catalog search failed: %w", err)
	}

	hits := make([]SearchHit, 0, len(results.Hits))
	for _, hit := range results.Hits {
		record, ok := i.records[hit.ID]
		if !ok {
			continue
		}
		hits = append(hits, SearchHit{Record: record, Score: hit.Score})
	}
	return hits, nil
}

// Count returns the number of indexed records.
func (i *Index) Count() (uint64, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.bleveIndex.DocCount()
}

// Close releases index resources.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.bleveIndex != nil {
		return i.bleveIndex.Close()
	}
	return nil
}
