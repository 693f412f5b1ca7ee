package selector

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/khanglvm/tool-optimizer/internal/registry"
	"github.com/khanglvm/tool-optimizer/internal/telemetry"
)

const (
	// maxSelected caps every selection list.
	maxSelected = 3

	// availabilityFloor is the minimum successRate for a tool to be
	// considered available.
	availabilityFloor = 0.5
)

// taskCapabilities maps a task type to the capability tags it requires.
var taskCapabilities = map[string][]string{
	"testing":         {"automated_testing", "quality_assurance"},
	"research":        {"web_search", "information_retrieval"},
	"documentation":   {"documentation", "content_generation"},
	"code_review":     {"code_analysis", "static_analysis"},
	"data_processing": {"data_transformation", "format_conversion"},
	"integration":     {"api_integration", "external_services"},
}

// RequiredCapabilities returns the capability tags a task type maps to,
// or nil for an unknown task type.
func RequiredCapabilities(taskType string) []string {
	return taskCapabilities[taskType]
}

// Selector ranks backend tools for a task.
type Selector struct {
	registry *registry.Registry
	store    *telemetry.Store
}

// New creates a selector over the given registry and performance store.
func New(reg *registry.Registry, store *telemetry.Store) *Selector {
	return &Selector{registry: reg, store: store}
}

// Select runs the selection pipeline for one task context.
//
// The available pool is every tool with a performance state whose
// successRate exceeds 0.5, ordered by registry registration order with
// unregistered tools appended in lexicographic order. All ranking steps
// break ties by pool order, so identical inputs yield identical output.
func (s *Selector) Select(ctx TaskContext, strategy Strategy, method Method) Result {
	start := time.Now()

	pool := s.availablePool()
	if len(pool) == 0 {
		return Result{
			SelectedTools:         []string{},
			ConfidenceScore:       0.0,
			Reasoning:             fmt.Sprintf("no tools available for task %q: no tool has successRate above %.1f", ctx.TaskType, availabilityFloor),
			PerformancePrediction: map[string]Prediction{},
			OptimizationTimeMs:    msSince(start),
		}
	}

	contextList := s.contextBased(pool, ctx.TaskType)
	perfList := s.performanceBased(pool)

	var selected []string
	switch method {
	case MethodContextBased:
		selected = contextList
	case MethodPerformanceBased:
		selected = perfList
	case MethodMachineLearning:
		// Stub contract: delegate to hybrid selection with the balanced
		// strategy until a learned model is wired in.
		selected = s.hybrid(pool, contextList, perfList, StrategyBalanced)
	default:
		selected = s.hybrid(pool, contextList, perfList, strategy)
	}

	result := Result{
		SelectedTools:         selected,
		ConfidenceScore:       s.confidence(selected, ctx.Requirements),
		Reasoning:             s.reasoning(selected, ctx, strategy, method),
		PerformancePrediction: s.predictions(selected),
		Alternatives:          s.alternatives(selected, contextList, perfList),
		OptimizationTimeMs:    msSince(start),
	}
	return result
}

// availablePool returns the tools eligible for selection: registered
// tools first (registration order), then telemetry-only tools sorted by
// ID.
func (s *Selector) availablePool() []string {
	seen := make(map[string]bool)
	var pool []string

	for _, id := range s.registry.IDs() {
		state, ok := s.store.State(id)
		if ok && state.SuccessRate > availabilityFloor {
			pool = append(pool, id)
			seen[id] = true
		}
	}

	// States() is sorted by tool ID, which keeps the tail deterministic.
	for _, state := range s.store.States() {
		if seen[state.ToolID] || state.SuccessRate <= availabilityFloor {
			continue
		}
		pool = append(pool, state.ToolID)
	}

	return pool
}

// contextBased selects pool tools whose capability set intersects the
// task type's required tags, in pool order, capped at maxSelected.
func (s *Selector) contextBased(pool []string, taskType string) []string {
	required := taskCapabilities[taskType]
	if len(required) == 0 {
		return nil
	}

	var selected []string
	for _, id := range pool {
		tool, ok := s.registry.Get(id)
		if !ok || !tool.Matches(required) {
			continue
		}
		selected = append(selected, id)
		if len(selected) == maxSelected {
			break
		}
	}
	return selected
}

// PerformanceScore is the composite telemetry score used for ranking:
// 0.4*successRate + 0.3*(1-errorRate) + 0.2*(1/(responseTime+0.1)) + 0.1*(1-resourceUsage).
func PerformanceScore(state telemetry.ToolState) float64 {
	return 0.4*state.SuccessRate +
		0.3*(1-state.ErrorRate) +
		0.2*(1/(state.ResponseTime+0.1)) +
		0.1*(1-state.ResourceUsage)
}

// performanceBased ranks the pool by composite score, descending, and
// returns the top maxSelected. Equal scores keep pool order.
func (s *Selector) performanceBased(pool []string) []string {
	type scored struct {
		id    string
		score float64
	}

	ranked := make([]scored, 0, len(pool))
	for _, id := range pool {
		state, ok := s.store.State(id)
		if !ok {
			continue
		}
		ranked = append(ranked, scored{id: id, score: PerformanceScore(state)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	n := len(ranked)
	if n > maxSelected {
		n = maxSelected
	}
	selected := make([]string, 0, n)
	for _, r := range ranked[:n] {
		selected = append(selected, r.id)
	}
	return selected
}

// strategyWeights returns (contextWeight, perfWeight) for a strategy.
// CostEffective is intentionally identical to Balanced until a cost
// model exists; it keeps its own case so the table can diverge without
// an API change.
func strategyWeights(strategy Strategy) (float64, float64) {
	switch strategy {
	case StrategyPerformance:
		return 0.3, 0.7
	case StrategyAccuracy:
		return 0.7, 0.3
	case StrategyCostEffective:
		return 0.5, 0.5
	default: // StrategyBalanced
		return 0.5, 0.5
	}
}

// hybrid combines binary membership in the context and performance
// lists with strategy weights, ranks descending, and returns the top
// maxSelected tools with a positive combined score.
func (s *Selector) hybrid(pool, contextList, perfList []string, strategy Strategy) []string {
	contextWeight, perfWeight := strategyWeights(strategy)

	inContext := toSet(contextList)
	inPerf := toSet(perfList)

	type scored struct {
		id    string
		score float64
	}

	ranked := make([]scored, 0, len(pool))
	for _, id := range pool {
		score := 0.0
		if inContext[id] {
			score += contextWeight
		}
		if inPerf[id] {
			score += perfWeight
		}
		if score > 0 {
			ranked = append(ranked, scored{id: id, score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	n := len(ranked)
	if n > maxSelected {
		n = maxSelected
	}
	selected := make([]string, 0, n)
	for _, r := range ranked[:n] {
		selected = append(selected, r.id)
	}
	return selected
}

// confidence averages 0.5*successRate per selected tool, with a +0.2
// bonus when the tool's capabilities intersect the context requirements,
// clamped to [0, 1]. An empty selection scores 0.0.
func (s *Selector) confidence(selected []string, requirements []string) float64 {
	if len(selected) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, id := range selected {
		state, _ := s.store.State(id)
		score := 0.5 * state.SuccessRate

		if tool, ok := s.registry.Get(id); ok && tool.Matches(requirements) {
			score += 0.2
		}
		sum += score
	}

	confidence := sum / float64(len(selected))
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return confidence
}

// reasoning builds a deterministic explanation of the selection.
func (s *Selector) reasoning(selected []string, ctx TaskContext, strategy Strategy, method Method) string {
	if len(selected) == 0 {
		return fmt.Sprintf("no suitable tools found for task %q with %s/%s", ctx.TaskType, strategy, method)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "selected %d tool(s) for task %q using %s strategy (%s method)", len(selected), ctx.TaskType, strategy, method)

	for _, id := range selected {
		state, _ := s.store.State(id)
		caps := "none"
		if tool, ok := s.registry.Get(id); ok && len(tool.Capabilities) > 0 {
			caps = strings.Join(tool.Capabilities, ", ")
		}
		fmt.Fprintf(&b, "; %s [capabilities: %s; successRate: %.2f]", id, caps, state.SuccessRate)
	}
	return b.String()
}

// predictions applies the placeholder decay heuristic per selected tool.
func (s *Selector) predictions(selected []string) map[string]Prediction {
	predictions := make(map[string]Prediction, len(selected))
	for _, id := range selected {
		state, _ := s.store.State(id)
		predictions[id] = Prediction{
			PredictedSuccessRate:  state.SuccessRate * 0.9,
			PredictedResponseTime: state.ResponseTime * 1.1,
			Confidence:            0.8,
		}
	}
	return predictions
}

// alternatives includes the pure performance-based and pure
// context-based lists when they differ from the chosen selection.
func (s *Selector) alternatives(selected, contextList, perfList []string) []Alternative {
	var alternatives []Alternative

	if len(perfList) > 0 && !equalLists(selected, perfList) {
		alternatives = append(alternatives, Alternative{
			Label:     "performance_based",
			Tools:     perfList,
			Reasoning: "top tools by composite telemetry score",
		})
	}
	if len(contextList) > 0 && !equalLists(selected, contextList) {
		alternatives = append(alternatives, Alternative{
			Label:     "context_based",
			Tools:     contextList,
			Reasoning: "tools whose capabilities match the task type",
		})
	}
	return alternatives
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func equalLists(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
