package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/khanglvm/tool-optimizer/internal/search"
	"github.com/khanglvm/tool-optimizer/internal/storage"
)

// Retriever computes a knowledge result on a cache miss. The actual
// retrieval computation lives outside the core.
type Retriever interface {
	Retrieve(ctx context.Context, query string, queryContext map[string]string) ([]byte, error)
}

// RetrieverFunc adapts a function to the Retriever interface.
type RetrieverFunc func(ctx context.Context, query string, queryContext map[string]string) ([]byte, error)

// Retrieve implements Retriever.
func (f RetrieverFunc) Retrieve(ctx context.Context, query string, queryContext map[string]string) ([]byte, error) {
	return f(ctx, query, queryContext)
}

// OptimizeKnowledgeRetrieval serves a knowledge query cache-first.
//
// The cache key is a hash of (query, context). On a miss the external
// retriever computes the result, which is then cached for future calls.
func (e *Engine) OptimizeKnowledgeRetrieval(ctx context.Context, query string, queryContext map[string]string, retriever Retriever) ([]byte, error) {
	key := retrievalFingerprint(query, queryContext)

	if value, ok := e.cache.Get(key); ok {
		return value, nil
	}

	if retriever == nil {
		return nil, fmt.Errorf("no retriever provided for query %q", query)
	}

	value, err := retriever.Retrieve(ctx, query, queryContext)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}

	e.cache.Set(key, value, true)
	return value, nil
}

// retrievalFingerprint derives a deterministic cache key from the query
// and its context. Context keys are sorted so map order cannot change
// the key.
func retrievalFingerprint(query string, queryContext map[string]string) string {
	keys := make([]string, 0, len(queryContext))
	for key := range queryContext {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	ordered := make([][2]string, 0, len(keys))
	for _, key := range keys {
		ordered = append(ordered, [2]string{key, queryContext[key]})
	}

	data, err := json.Marshal(struct {
		Query   string      `json:"query"`
		Context [][2]string `json:"context"`
	}{query, ordered})
	if err != nil {
		return storage.HashContext(query)
	}
	return storage.HashContext(string(data))
}

// FindTools searches the capability index and re-ranks hits by live
// performance.
func (e *Engine) FindTools(query string, limit int) ([]search.Result, error) {
	if e.indexer == nil {
		return nil, fmt.Errorf("capability search is disabled")
	}

	results, err := e.indexer.Search(query, limit)
	if err != nil {
		return nil, err
	}

	return search.FuseWithPerformance(results, e.store, search.DefaultFusionConfig), nil
}
