package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khanglvm/tool-optimizer/internal/config"
	"github.com/khanglvm/tool-optimizer/internal/selector"
	"github.com/khanglvm/tool-optimizer/internal/storage"
	"github.com/khanglvm/tool-optimizer/internal/telemetry"
)

// newTestEngine builds an engine with archiving disabled so tests never
// touch the home directory.
func newTestEngine(t *testing.T, mutate func(*config.Config)) *Engine {
	t.Helper()

	cfg := config.Default()
	cfg.Archive = &config.ArchiveSettings{Enabled: false}
	if mutate != nil {
		mutate(cfg)
	}

	e := New(cfg)
	t.Cleanup(func() { e.Close() })
	return e
}

func seedHealthyTool(t *testing.T, e *Engine, toolID string) {
	t.Helper()
	for kind, value := range map[string]float64{
		"successRate":   0.9,
		"responseTime":  1.0,
		"errorRate":     0.05,
		"resourceUsage": 0.2,
	} {
		_, err := e.RecordMetric(toolID, kind, value)
		require.NoError(t, err)
	}
}

func TestSelectTools_ProducesBoundedSelection(t *testing.T) {
	e := newTestEngine(t, nil)
	seedHealthyTool(t, e, "test-runner")
	seedHealthyTool(t, e, "code-analyzer")

	result, err := e.SelectTools("testing", []string{"automated_testing"}, nil, nil)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(result.SelectedTools), 3)
	assert.GreaterOrEqual(t, result.ConfidenceScore, 0.0)
	assert.LessOrEqual(t, result.ConfidenceScore, 1.0)
	assert.NotEmpty(t, result.Reasoning)
}

func TestSelectTools_EmptyPoolIsNotAnError(t *testing.T) {
	e := newTestEngine(t, nil)

	result, err := e.SelectTools("testing", nil, nil, nil)
	require.NoError(t, err)

	assert.Empty(t, result.SelectedTools)
	assert.Equal(t, 0.0, result.ConfidenceScore)
	assert.Contains(t, result.Reasoning, "no tools available")
}

func TestSelectTools_AppendsHistory(t *testing.T) {
	e := newTestEngine(t, nil)
	seedHealthyTool(t, e, "test-runner")

	e.SelectTools("testing", nil, nil, nil)
	e.SelectTools("research", nil, nil, nil)

	history := e.History()
	require.Len(t, history, 2)
	assert.Equal(t, "testing", history[0].Context.TaskType)
	assert.Equal(t, "research", history[1].Context.TaskType)
}

func TestSelectTools_HistoryBounded(t *testing.T) {
	e := newTestEngine(t, func(cfg *config.Config) { cfg.HistorySize = 5 })
	seedHealthyTool(t, e, "test-runner")

	for i := 0; i < 12; i++ {
		e.SelectTools(fmt.Sprintf("task-%d", i), nil, nil, nil)
	}

	history := e.History()
	require.Len(t, history, 5)
	// Oldest records dropped
	assert.Equal(t, "task-7", history[0].Context.TaskType)
	assert.Equal(t, "task-11", history[4].Context.TaskType)
}

func TestSelectTools_CachesSerializedResult(t *testing.T) {
	e := newTestEngine(t, nil)
	seedHealthyTool(t, e, "test-runner")

	e.SelectTools("testing", nil, nil, nil)

	assert.Equal(t, 1, e.CacheStats().Entries)
}

func TestSelectTools_Idempotent(t *testing.T) {
	e := newTestEngine(t, nil)
	seedHealthyTool(t, e, "test-runner")
	seedHealthyTool(t, e, "code-analyzer")
	seedHealthyTool(t, e, "doc-generator")

	first, err := e.SelectTools("testing", []string{"quality_assurance"}, nil, nil)
	require.NoError(t, err)
	second, err := e.SelectTools("testing", []string{"quality_assurance"}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, first.SelectedTools, second.SelectedTools)
	assert.Equal(t, first.ConfidenceScore, second.ConfidenceScore)
}

func TestRecordMetric_UnknownKind(t *testing.T) {
	e := newTestEngine(t, nil)

	_, err := e.RecordMetric("svcA", "latency", 1.0)
	assert.Error(t, err)
}

func TestRecordMetric_InvalidValue(t *testing.T) {
	e := newTestEngine(t, nil)

	_, err := e.RecordMetric("svcA", "responseTime", -1.0)
	assert.ErrorIs(t, err, telemetry.ErrInvalidMetricValue)
}

func TestRecordMetric_AlertPassthrough(t *testing.T) {
	e := newTestEngine(t, nil)

	alert, err := e.RecordMetric("svcA", "responseTime", 8.0)
	require.NoError(t, err)
	require.NotNil(t, alert)
	assert.Equal(t, telemetry.SeverityHigh, alert.Severity)
}

func TestPerformanceSummary_Health(t *testing.T) {
	e := newTestEngine(t, nil)

	// Zero known tools default to good
	assert.Equal(t, HealthGood, e.PerformanceSummary().OverallHealth)

	seedHealthyTool(t, e, "test-runner")
	assert.Equal(t, HealthGood, e.PerformanceSummary().OverallHealth)

	// One healthy, one failing: ratio 0.5 is poor
	e.RecordMetric("flaky", "successRate", 0.3)
	e.RecordMetric("flaky", "errorRate", 0.7)
	assert.Equal(t, HealthPoor, e.PerformanceSummary().OverallHealth)
}

func TestPerformanceSummary_IncludesTrends(t *testing.T) {
	e := newTestEngine(t, nil)
	e.RecordMetric("svcA", "responseTime", 1.0)
	e.RecordMetric("svcA", "responseTime", 2.0)

	summary := e.PerformanceSummary()
	require.Len(t, summary.Tools, 1)

	trend := summary.Tools[0].Trends["responseTime"]
	assert.Equal(t, []float64{1.0, 2.0}, trend)
}

func TestGetInsights_TopTaskTypes(t *testing.T) {
	e := newTestEngine(t, nil)
	seedHealthyTool(t, e, "test-runner")

	for i := 0; i < 3; i++ {
		e.SelectTools("testing", nil, nil, nil)
	}
	e.SelectTools("research", nil, nil, nil)

	insights := e.GetInsights()
	assert.Equal(t, 4, insights.TotalOptimizations)
	require.NotEmpty(t, insights.TopTaskTypes)
	assert.Equal(t, "testing", insights.TopTaskTypes[0].TaskType)
	assert.Equal(t, 3, insights.TopTaskTypes[0].Count)
}

func TestGetInsights_Recommendations(t *testing.T) {
	e := newTestEngine(t, nil)

	// Selections against an empty pool have confidence 0.0
	e.SelectTools("testing", nil, nil, nil)
	insights := e.GetInsights()
	require.NotEmpty(t, insights.Recommendations)
	assert.Contains(t, insights.Recommendations[0], "confidence")

	// Trip the alert threshold recommendation
	for i := 0; i < 6; i++ {
		e.RecordMetric("svcA", "errorRate", 0.5)
	}
	insights = e.GetInsights()
	assert.Len(t, insights.Recommendations, 2)
}

func TestOptimizeKnowledgeRetrieval_CacheFirst(t *testing.T) {
	e := newTestEngine(t, nil)

	calls := 0
	retriever := RetrieverFunc(func(ctx context.Context, query string, queryContext map[string]string) ([]byte, error) {
		calls++
		return []byte("computed:" + query), nil
	})

	ctx := context.Background()
	queryContext := map[string]string{"lang": "go"}

	first, err := e.OptimizeKnowledgeRetrieval(ctx, "how to test", queryContext, retriever)
	require.NoError(t, err)
	second, err := e.OptimizeKnowledgeRetrieval(ctx, "how to test", queryContext, retriever)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "second call must be served from cache")

	// A different context misses the cache
	_, err = e.OptimizeKnowledgeRetrieval(ctx, "how to test", map[string]string{"lang": "rust"}, retriever)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestOptimizeKnowledgeRetrieval_RetrieverError(t *testing.T) {
	e := newTestEngine(t, nil)

	retriever := RetrieverFunc(func(ctx context.Context, query string, queryContext map[string]string) ([]byte, error) {
		return nil, fmt.Errorf("backend down")
	})

	_, err := e.OptimizeKnowledgeRetrieval(context.Background(), "q", nil, retriever)
	assert.Error(t, err)

	// Failures must not be cached
	assert.Equal(t, 0, e.CacheStats().Entries)
}

func TestExportSnapshot_InsightsRoundTrip(t *testing.T) {
	e := newTestEngine(t, nil)
	seedHealthyTool(t, e, "test-runner")
	e.SelectTools("testing", nil, nil, nil)
	e.SelectTools("testing", nil, nil, nil)

	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, e.ExportSnapshot(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var snapshot Snapshot
	require.NoError(t, json.Unmarshal(data, &snapshot))

	live := e.GetInsights()
	assert.Equal(t, live.TotalOptimizations, snapshot.Insights.TotalOptimizations)
	assert.Equal(t, live.AverageConfidence, snapshot.Insights.AverageConfidence)
	assert.Len(t, snapshot.OptimizationHistory, 2)
	assert.NotEmpty(t, snapshot.Timestamp)
	require.NotNil(t, snapshot.Config)
	assert.Equal(t, e.Config().DefaultStrategy, snapshot.Config.DefaultStrategy)
}

func TestFindTools_RanksByRelevanceAndPerformance(t *testing.T) {
	e := newTestEngine(t, nil)
	seedHealthyTool(t, e, "test-runner")

	results, err := e.FindTools("automated testing", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "test-runner", results[0].ToolID)
}

func TestHistoricalSuccess_ArchiveOverlay(t *testing.T) {
	archive := storage.NewStorageAt(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, archive.Init())

	cfg := config.Default()
	cfg.Archive = &config.ArchiveSettings{Enabled: false}
	e := New(cfg, WithArchive(archive))
	t.Cleanup(func() { e.Close() })

	// Archived telemetry overrides the static default for that tool
	e.RecordMetric("test-runner", "successRate", 0.6)

	success := e.historicalSuccess()
	assert.InDelta(t, 0.6, success["test-runner"], 0.001)
	assert.Equal(t, staticSuccessDefault, success["doc-generator"])
}

func TestRehydrateFromArchive(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	archive := storage.NewStorageAt(dbPath)
	require.NoError(t, archive.Init())

	cfg := config.Default()
	cfg.Archive = &config.ArchiveSettings{Enabled: false}

	// First process records telemetry through the archive
	first := New(cfg, WithArchive(archive))
	first.RecordMetric("test-runner", "successRate", 0.9)
	first.RecordMetric("test-runner", "responseTime", 1.5)
	require.NoError(t, first.Close())

	// Second process starts cold and replays the archive
	archive2 := storage.NewStorageAt(dbPath)
	require.NoError(t, archive2.Init())
	second := New(cfg, WithArchive(archive2))
	t.Cleanup(func() { second.Close() })

	require.Empty(t, second.PerformanceSummary().Tools)
	require.NoError(t, second.RehydrateFromArchive(24*time.Hour))

	summary := second.PerformanceSummary()
	require.Len(t, summary.Tools, 1)
	assert.Equal(t, "test-runner", summary.Tools[0].State.ToolID)
	assert.Equal(t, 0.9, summary.Tools[0].State.SuccessRate)
	assert.Equal(t, 1.5, summary.Tools[0].State.ResponseTime)
}

func TestInferComplexity(t *testing.T) {
	tests := []struct {
		requirements []string
		expected     selector.Complexity
	}{
		{[]string{"advanced analytics"}, selector.ComplexityComplex},
		{[]string{"comprehensive", "report"}, selector.ComplexityComplex},
		{[]string{"integration"}, selector.ComplexityComplex},
		{[]string{"several sources"}, selector.ComplexityMedium},
		{[]string{"moderate detail"}, selector.ComplexityMedium},
		{[]string{"quick summary"}, selector.ComplexityMedium},
		{nil, selector.ComplexityMedium},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, inferComplexity(tt.requirements), "requirements %v", tt.requirements)
	}
}
