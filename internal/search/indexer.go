/*
Package search implements full-text search over the capability registry.

This package indexes each tool's capability, strength, and best-for tags
in an in-memory Bleve index and provides BM25 relevance search, plus a
fusion step that blends relevance with live performance scores.
*/
package search

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/khanglvm/tool-optimizer/internal/registry"
)

// Result is a single capability search hit.
type Result struct {
	ToolID       string  `json:"toolId"`
	Capabilities string  `json:"capabilities"`
	BestFor      string  `json:"bestFor"`
	Score        float64 `json:"score"`
}

// Indexer manages the search index over registry entries.
type Indexer struct {
	bleveIndex bleve.Index
	mu         sync.RWMutex
}

// NewIndexer creates a new in-memory Bleve index.
func NewIndexer() (*Indexer, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	return &Indexer{bleveIndex: index}, nil
}

// buildIndexMapping creates the Bleve index mapping for tool documents.
func buildIndexMapping() mapping.IndexMapping {
	toolMapping := bleve.NewDocumentMapping()

	// Tool ID: searchable text
	idFieldMapping := bleve.NewTextFieldMapping()
	toolMapping.AddFieldMappingsAt("toolId", idFieldMapping)

	// Capability tags: searchable text
	capsFieldMapping := bleve.NewTextFieldMapping()
	toolMapping.AddFieldMappingsAt("capabilities", capsFieldMapping)

	// Strength tags: searchable text
	strengthsFieldMapping := bleve.NewTextFieldMapping()
	toolMapping.AddFieldMappingsAt("strengths", strengthsFieldMapping)

	// Best-for tags: searchable text
	bestForFieldMapping := bleve.NewTextFieldMapping()
	toolMapping.AddFieldMappingsAt("bestFor", bestForFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", toolMapping)

	return indexMapping
}

// IndexRegistry indexes every tool in the registry. Underscored tags
// are flattened to words so "automated_testing" matches a query for
// "automated testing".
func (i *Indexer) IndexRegistry(reg *registry.Registry) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	batch := i.bleveIndex.NewBatch()

	for _, tool := range reg.Tools() {
		doc := map[string]interface{}{
			"toolId":       tool.ToolID,
			"capabilities": flattenTags(tool.Capabilities),
			"strengths":    flattenTags(tool.Strengths),
			"bestFor":      flattenTags(tool.BestFor),
		}

		if err := batch.Index(tool.ToolID, doc); err != nil {
			log.Printf("Warning: failed to index tool %s: %v", tool.ToolID, err)
		}
	}

	if err := i.bleveIndex.Batch(batch); err != nil {
		return fmt.Errorf("failed to batch index tools: %w", err)
	}

	return nil
}

// Search performs BM25 relevance search over the indexed tools.
func (i *Indexer) Search(query string, limit int) ([]Result, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	matchQuery := bleve.NewMatchQuery(query)

	searchRequest := bleve.NewSearchRequestOptions(matchQuery, limit, 0, false)
	searchRequest.Fields = []string{"toolId", "capabilities", "bestFor"}

	results, err := i.bleveIndex.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	searchResults := make([]Result, 0, len(results.Hits))
	for _, hit := range results.Hits {
		toolID, _ := hit.Fields["toolId"].(string)
		capabilities, _ := hit.Fields["capabilities"].(string)
		bestFor, _ := hit.Fields["bestFor"].(string)

		searchResults = append(searchResults, Result{
			ToolID:       toolID,
			Capabilities: capabilities,
			BestFor:      bestFor,
			Score:        hit.Score,
		})
	}

	return searchResults, nil
}

// flattenTags joins tags with spaces and splits underscored tags into
// separate words for the analyzer.
func flattenTags(tags []string) string {
	joined := strings.Join(tags, " ")
	return strings.ReplaceAll(joined, "_", " ")
}

// Close releases the index.
func (i *Indexer) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.bleveIndex.Close()
}
