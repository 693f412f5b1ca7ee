package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khanglvm/tool-optimizer/internal/registry"
	"github.com/khanglvm/tool-optimizer/internal/telemetry"
)

// newTestFixture builds a registry and store with a populated tool pool.
func newTestFixture(t *testing.T) (*registry.Registry, *telemetry.Store) {
	t.Helper()

	reg := registry.New()
	reg.Register(registry.ToolCapability{
		ToolID:       "test-runner",
		Capabilities: []string{"automated_testing", "quality_assurance"},
	})
	reg.Register(registry.ToolCapability{
		ToolID:       "code-analyzer",
		Capabilities: []string{"code_analysis", "quality_assurance"},
	})
	reg.Register(registry.ToolCapability{
		ToolID:       "doc-generator",
		Capabilities: []string{"documentation", "content_generation"},
	})

	store := telemetry.NewStore()
	return reg, store
}

func record(t *testing.T, store *telemetry.Store, toolID string, success, resp, errRate, usage float64) {
	t.Helper()
	_, err := store.Record(toolID, telemetry.MetricSuccessRate, success)
	require.NoError(t, err)
	_, err = store.Record(toolID, telemetry.MetricResponseTime, resp)
	require.NoError(t, err)
	_, err = store.Record(toolID, telemetry.MetricErrorRate, errRate)
	require.NoError(t, err)
	_, err = store.Record(toolID, telemetry.MetricResourceUsage, usage)
	require.NoError(t, err)
}

func TestSelect_EmptyPool(t *testing.T) {
	reg, store := newTestFixture(t)
	s := New(reg, store)

	result := s.Select(TaskContext{TaskType: "testing"}, StrategyBalanced, MethodHybrid)

	assert.Empty(t, result.SelectedTools)
	assert.Equal(t, 0.0, result.ConfidenceScore)
	assert.Contains(t, result.Reasoning, "no tools available")
}

func TestSelect_ExcludesLowSuccessRateTools(t *testing.T) {
	reg, store := newTestFixture(t)
	record(t, store, "test-runner", 0.9, 1.0, 0.1, 0.2)
	record(t, store, "code-analyzer", 0.4, 1.0, 0.5, 0.2) // below the 0.5 floor

	s := New(reg, store)
	result := s.Select(TaskContext{TaskType: "code_review"}, StrategyBalanced, MethodPerformanceBased)

	assert.NotContains(t, result.SelectedTools, "code-analyzer")
}

func TestSelect_PerformanceBasedOrdering(t *testing.T) {
	// Scenario: X scores ~0.939, Y scores ~0.547, so the order is [X, Y].
	reg := registry.New()
	reg.Register(registry.ToolCapability{ToolID: "X"})
	reg.Register(registry.ToolCapability{ToolID: "Y"})
	store := telemetry.NewStore()
	record(t, store, "X", 0.95, 1.0, 0.05, 0.2)
	record(t, store, "Y", 0.70, 3.0, 0.30, 0.6)

	s := New(reg, store)
	result := s.Select(TaskContext{}, StrategyPerformance, MethodPerformanceBased)

	require.Equal(t, []string{"X", "Y"}, result.SelectedTools)

	stateX, _ := store.State("X")
	stateY, _ := store.State("Y")
	// 0.4*0.95 + 0.3*0.95 + 0.2*(1/1.1) + 0.1*0.8
	assert.InDelta(t, 0.9268, PerformanceScore(stateX), 0.001)
	// 0.4*0.70 + 0.3*0.70 + 0.2*(1/3.1) + 0.1*0.4
	assert.InDelta(t, 0.5945, PerformanceScore(stateY), 0.001)
	assert.Greater(t, PerformanceScore(stateX), PerformanceScore(stateY))
}

func TestSelect_CapsAtThreeTools(t *testing.T) {
	reg := registry.New()
	store := telemetry.NewStore()
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		reg.Register(registry.ToolCapability{ToolID: id, Capabilities: []string{"automated_testing"}})
		record(t, store, id, 0.9, 1.0, 0.1, 0.2)
	}

	s := New(reg, store)
	for _, method := range []Method{MethodContextBased, MethodPerformanceBased, MethodHybrid, MethodMachineLearning} {
		result := s.Select(TaskContext{TaskType: "testing"}, StrategyBalanced, method)
		assert.LessOrEqual(t, len(result.SelectedTools), 3, "method %s", method)
	}
}

func TestSelect_ContextBasedMatchesTaskCapabilities(t *testing.T) {
	reg, store := newTestFixture(t)
	record(t, store, "test-runner", 0.9, 1.0, 0.1, 0.2)
	record(t, store, "code-analyzer", 0.9, 1.0, 0.1, 0.2)
	record(t, store, "doc-generator", 0.9, 1.0, 0.1, 0.2)

	s := New(reg, store)
	result := s.Select(TaskContext{TaskType: "testing"}, StrategyBalanced, MethodContextBased)

	// "testing" requires automated_testing or quality_assurance:
	// test-runner and code-analyzer match, doc-generator does not.
	assert.Equal(t, []string{"test-runner", "code-analyzer"}, result.SelectedTools)
}

func TestSelect_ContextBasedUnknownTaskType(t *testing.T) {
	reg, store := newTestFixture(t)
	record(t, store, "test-runner", 0.9, 1.0, 0.1, 0.2)

	s := New(reg, store)
	result := s.Select(TaskContext{TaskType: "juggling"}, StrategyBalanced, MethodContextBased)

	assert.Empty(t, result.SelectedTools)
	assert.Equal(t, 0.0, result.ConfidenceScore)
}

func TestSelect_HybridPrefersDoubleMembership(t *testing.T) {
	reg, store := newTestFixture(t)
	// test-runner matches "testing" and has strong telemetry: member of
	// both lists. doc-generator only ranks on performance.
	record(t, store, "test-runner", 0.95, 0.5, 0.02, 0.1)
	record(t, store, "doc-generator", 0.9, 1.0, 0.1, 0.3)

	s := New(reg, store)
	result := s.Select(TaskContext{TaskType: "testing"}, StrategyBalanced, MethodHybrid)

	require.NotEmpty(t, result.SelectedTools)
	assert.Equal(t, "test-runner", result.SelectedTools[0])
}

func TestSelect_MachineLearningDelegatesToBalancedHybrid(t *testing.T) {
	reg, store := newTestFixture(t)
	record(t, store, "test-runner", 0.95, 0.5, 0.02, 0.1)
	record(t, store, "code-analyzer", 0.85, 1.5, 0.1, 0.3)
	record(t, store, "doc-generator", 0.9, 1.0, 0.1, 0.3)

	s := New(reg, store)
	ctx := TaskContext{TaskType: "testing"}

	ml := s.Select(ctx, StrategyPerformance, MethodMachineLearning)
	hybrid := s.Select(ctx, StrategyBalanced, MethodHybrid)

	assert.Equal(t, hybrid.SelectedTools, ml.SelectedTools)
}

func TestSelect_CostEffectiveMatchesBalanced(t *testing.T) {
	// CostEffective carries no distinct weighting yet; it must behave
	// exactly like Balanced.
	reg, store := newTestFixture(t)
	record(t, store, "test-runner", 0.95, 0.5, 0.02, 0.1)
	record(t, store, "doc-generator", 0.9, 1.0, 0.1, 0.3)

	s := New(reg, store)
	ctx := TaskContext{TaskType: "testing"}

	costEffective := s.Select(ctx, StrategyCostEffective, MethodHybrid)
	balanced := s.Select(ctx, StrategyBalanced, MethodHybrid)

	assert.Equal(t, balanced.SelectedTools, costEffective.SelectedTools)
}

func TestSelect_ConfidenceWithinBounds(t *testing.T) {
	reg, store := newTestFixture(t)
	record(t, store, "test-runner", 1.0, 0.5, 0.0, 0.1)
	record(t, store, "doc-generator", 0.6, 2.0, 0.3, 0.5)

	s := New(reg, store)

	contexts := []TaskContext{
		{TaskType: "testing", Requirements: []string{"automated_testing"}},
		{TaskType: "testing"},
		{TaskType: "documentation", Requirements: []string{"nonexistent_tag"}},
		{},
	}
	for _, ctx := range contexts {
		for _, method := range []Method{MethodContextBased, MethodPerformanceBased, MethodHybrid} {
			result := s.Select(ctx, StrategyBalanced, method)
			assert.GreaterOrEqual(t, result.ConfidenceScore, 0.0)
			assert.LessOrEqual(t, result.ConfidenceScore, 1.0)
		}
	}
}

func TestSelect_ConfidenceRequirementBonus(t *testing.T) {
	reg, store := newTestFixture(t)
	record(t, store, "test-runner", 0.8, 1.0, 0.1, 0.2)

	s := New(reg, store)

	without := s.Select(TaskContext{TaskType: "testing"}, StrategyBalanced, MethodContextBased)
	with := s.Select(TaskContext{TaskType: "testing", Requirements: []string{"automated_testing"}}, StrategyBalanced, MethodContextBased)

	// 0.5*0.8 = 0.40 without the bonus, 0.60 with it
	assert.InDelta(t, 0.40, without.ConfidenceScore, 0.001)
	assert.InDelta(t, 0.60, with.ConfidenceScore, 0.001)
}

func TestSelect_Deterministic(t *testing.T) {
	reg, store := newTestFixture(t)
	record(t, store, "test-runner", 0.9, 1.0, 0.1, 0.2)
	record(t, store, "code-analyzer", 0.9, 1.0, 0.1, 0.2)
	record(t, store, "doc-generator", 0.9, 1.0, 0.1, 0.2)

	s := New(reg, store)
	ctx := TaskContext{TaskType: "testing", Requirements: []string{"quality_assurance"}}

	first := s.Select(ctx, StrategyBalanced, MethodHybrid)
	second := s.Select(ctx, StrategyBalanced, MethodHybrid)

	assert.Equal(t, first.SelectedTools, second.SelectedTools)
	assert.Equal(t, first.ConfidenceScore, second.ConfidenceScore)
	assert.Equal(t, first.Reasoning, second.Reasoning)
}

func TestSelect_SelectedToolsBelongToPool(t *testing.T) {
	reg, store := newTestFixture(t)
	record(t, store, "test-runner", 0.9, 1.0, 0.1, 0.2)
	record(t, store, "code-analyzer", 0.3, 1.0, 0.6, 0.2) // unavailable

	s := New(reg, store)

	for _, method := range []Method{MethodContextBased, MethodPerformanceBased, MethodHybrid} {
		result := s.Select(TaskContext{TaskType: "testing"}, StrategyBalanced, method)
		for _, id := range result.SelectedTools {
			state, ok := store.State(id)
			require.True(t, ok, "selected tool %s has no state", id)
			assert.Greater(t, state.SuccessRate, 0.5, "selected tool %s is not available", id)
		}
	}
}

func TestSelect_Predictions(t *testing.T) {
	reg, store := newTestFixture(t)
	record(t, store, "test-runner", 0.9, 2.0, 0.1, 0.2)

	s := New(reg, store)
	result := s.Select(TaskContext{TaskType: "testing"}, StrategyBalanced, MethodContextBased)

	require.Contains(t, result.PerformancePrediction, "test-runner")
	prediction := result.PerformancePrediction["test-runner"]
	assert.InDelta(t, 0.81, prediction.PredictedSuccessRate, 0.001)  // 0.9 * 0.9
	assert.InDelta(t, 2.2, prediction.PredictedResponseTime, 0.001)  // 2.0 * 1.1
	assert.Equal(t, 0.8, prediction.Confidence)
}

func TestSelect_AlternativesOnlyWhenDifferent(t *testing.T) {
	reg, store := newTestFixture(t)
	record(t, store, "test-runner", 0.95, 0.5, 0.02, 0.1)
	record(t, store, "code-analyzer", 0.85, 1.5, 0.1, 0.3)
	record(t, store, "doc-generator", 0.9, 1.0, 0.1, 0.3)

	s := New(reg, store)

	// Performance-based selection: the performance alternative is
	// identical to the choice, so only the context alternative appears.
	result := s.Select(TaskContext{TaskType: "testing"}, StrategyBalanced, MethodPerformanceBased)
	for _, alt := range result.Alternatives {
		assert.NotEqual(t, result.SelectedTools, alt.Tools)
		assert.NotEmpty(t, alt.Label)
		assert.NotEmpty(t, alt.Reasoning)
	}
}

func TestSelect_ReasoningNamesSelectedTools(t *testing.T) {
	reg, store := newTestFixture(t)
	record(t, store, "test-runner", 0.9, 1.0, 0.1, 0.2)

	s := New(reg, store)
	result := s.Select(TaskContext{TaskType: "testing"}, StrategyAccuracy, MethodContextBased)

	assert.Contains(t, result.Reasoning, "test-runner")
	assert.Contains(t, result.Reasoning, "accuracy")
	assert.Contains(t, result.Reasoning, "automated_testing")
	assert.Contains(t, result.Reasoning, "0.90")
}

func TestParseStrategyAndMethod(t *testing.T) {
	for _, s := range []string{"performance", "accuracy", "balanced", "cost_effective"} {
		_, err := ParseStrategy(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseStrategy("cheapest")
	assert.Error(t, err)

	for _, m := range []string{"context_based", "performance_based", "hybrid", "machine_learning"} {
		_, err := ParseMethod(m)
		assert.NoError(t, err, m)
	}
	_, err = ParseMethod("random")
	assert.Error(t, err)
}
