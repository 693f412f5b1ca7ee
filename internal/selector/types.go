/*
Package selector implements the tool-selection algorithm.

Given a task context, an optimization strategy, and a selection method,
the selector reads the capability registry and the live performance
store and produces a ranked selection with a confidence score,
human-readable reasoning, per-tool performance predictions, and
alternative candidate lists. Each call is a pure pipeline over shared
read-only inputs; the selector itself holds no mutable state.
*/
package selector

import "fmt"

// Strategy is the optimization goal for a selection.
type Strategy string

const (
	StrategyPerformance   Strategy = "performance"
	StrategyAccuracy      Strategy = "accuracy"
	StrategyBalanced      Strategy = "balanced"
	StrategyCostEffective Strategy = "cost_effective"
)

// ParseStrategy converts a string to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyPerformance, StrategyAccuracy, StrategyBalanced, StrategyCostEffective:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown strategy: %q", s)
}

// Method is how candidate tools are chosen and ranked.
type Method string

const (
	MethodContextBased     Method = "context_based"
	MethodPerformanceBased Method = "performance_based"
	MethodHybrid           Method = "hybrid"

	// MethodMachineLearning is a stub contract: it currently delegates to
	// hybrid selection with the balanced strategy. A learned ranking model
	// may be substituted later behind the same interface.
	MethodMachineLearning Method = "machine_learning"
)

// ParseMethod converts a string to a Method.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodContextBased, MethodPerformanceBased, MethodHybrid, MethodMachineLearning:
		return Method(s), nil
	}
	return "", fmt.Errorf("unknown selection method: %q", s)
}

// Complexity classifies how demanding a task is.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

// TaskContext describes the work a selection is optimized for. It is
// constructed per call and never persisted by the selector.
type TaskContext struct {
	TaskType   string     `json:"taskType"`
	Complexity Complexity `json:"complexity"`

	// Requirements are capability tags the caller cares about; they feed
	// the confidence bonus.
	Requirements []string `json:"requirements"`

	// Constraints carry advisory metadata such as timeLimit or budget.
	// They are recorded with the selection but never enforced here.
	Constraints map[string]string `json:"constraints,omitempty"`

	UserPreferences map[string]string `json:"userPreferences,omitempty"`

	// HistoricalSuccess maps tool IDs to prior success scores.
	HistoricalSuccess map[string]float64 `json:"historicalSuccess,omitempty"`
}

// Prediction is the placeholder decay heuristic applied to a selected
// tool's current telemetry.
type Prediction struct {
	PredictedSuccessRate  float64 `json:"predictedSuccessRate"`
	PredictedResponseTime float64 `json:"predictedResponseTime"`
	Confidence            float64 `json:"confidence"`
}

// Alternative is a candidate list the selector considered but did not
// choose.
type Alternative struct {
	Label     string   `json:"label"`
	Tools     []string `json:"tools"`
	Reasoning string   `json:"reasoning"`
}

// Result is the outcome of one selection. Immutable once produced.
type Result struct {
	SelectedTools         []string              `json:"selectedTools"`
	ConfidenceScore       float64               `json:"confidenceScore"`
	Reasoning             string                `json:"reasoning"`
	PerformancePrediction map[string]Prediction `json:"performancePrediction"`
	Alternatives          []Alternative         `json:"alternatives"`
	OptimizationTimeMs    float64               `json:"optimizationTimeMs"`
}
