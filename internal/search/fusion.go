package search

import (
	"sort"

	"github.com/khanglvm/tool-optimizer/internal/selector"
	"github.com/khanglvm/tool-optimizer/internal/telemetry"
)

// FusionConfig defines weights for relevance/performance score fusion.
type FusionConfig struct {
	RelevanceWeight   float64
	PerformanceWeight float64
}

// DefaultFusionConfig favors relevance (60% relevance, 40% performance).
var DefaultFusionConfig = FusionConfig{
	RelevanceWeight:   0.6,
	PerformanceWeight: 0.4,
}

// FuseWithPerformance re-ranks search results by blending the normalized
// BM25 relevance score with the normalized composite performance score
// from live telemetry. Tools without telemetry keep a performance score
// of zero. Equal fused scores are ordered by tool ID for determinism.
func FuseWithPerformance(results []Result, store *telemetry.Store, config FusionConfig) []Result {
	if len(results) == 0 {
		return results
	}

	relevance := make([]float64, len(results))
	performance := make([]float64, len(results))
	for i, result := range results {
		relevance[i] = result.Score
		if state, ok := store.State(result.ToolID); ok {
			performance[i] = selector.PerformanceScore(state)
		}
	}

	normalize(relevance)
	normalize(performance)

	fused := make([]Result, len(results))
	for i, result := range results {
		fused[i] = result
		fused[i].Score = config.RelevanceWeight*relevance[i] +
			config.PerformanceWeight*performance[i]
	}

	sort.SliceStable(fused, func(i, j int) bool {
		if fused[i].Score != fused[j].Score {
			return fused[i].Score > fused[j].Score
		}
		return fused[i].ToolID < fused[j].ToolID
	})

	return fused
}

// normalize rescales values to [0, 1] in place. When all values are
// equal they all become 1.0.
func normalize(values []float64) {
	if len(values) == 0 {
		return
	}

	minValue := values[0]
	maxValue := values[0]
	for _, v := range values {
		if v < minValue {
			minValue = v
		}
		if v > maxValue {
			maxValue = v
		}
	}

	// Avoid division by zero - when all scores are equal, set all to 1.0
	if maxValue == minValue {
		for i := range values {
			values[i] = 1.0
		}
		return
	}

	for i := range values {
		values[i] = (values[i] - minValue) / (maxValue - minValue)
	}
}
