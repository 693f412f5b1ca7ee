package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/khanglvm/tool-optimizer/internal/telemetry"
)

// trendWindow is the lookback for per-tool trend sequences in the
// performance summary.
const trendWindow = 60 * time.Minute

// Health classifies the overall tool pool.
type Health string

const (
	HealthGood     Health = "good"
	HealthDegraded Health = "degraded"
	HealthPoor     Health = "poor"
)

// ToolSummary is one tool's state plus its recent trends.
type ToolSummary struct {
	State  telemetry.ToolState  `json:"state"`
	Trends map[string][]float64 `json:"trends"`
}

// Summary is a snapshot of all tool performance state.
type Summary struct {
	Tools         []ToolSummary `json:"tools"`
	OverallHealth Health        `json:"overallHealth"`
	AlertCount    int           `json:"alertCount"`
	GeneratedAt   time.Time     `json:"generatedAt"`
}

// PerformanceSummary snapshots every tool's state, its 60-minute
// trends, and an overall health classification.
//
// A tool counts as healthy when successRate >= 0.8 and errorRate <= 0.1.
// The pool is "good" when at least 80% of tools are healthy, "degraded"
// at 60%, and "poor" below that. An empty pool reports "good".
func (e *Engine) PerformanceSummary() Summary {
	states := e.store.States()

	summary := Summary{
		Tools:       make([]ToolSummary, 0, len(states)),
		AlertCount:  e.store.AlertCount(),
		GeneratedAt: time.Now(),
	}

	healthy := 0
	for _, state := range states {
		if state.SuccessRate >= 0.8 && state.ErrorRate <= 0.1 {
			healthy++
		}

		trends := make(map[string][]float64)
		for _, kind := range []telemetry.MetricKind{
			telemetry.MetricResponseTime,
			telemetry.MetricSuccessRate,
			telemetry.MetricErrorRate,
			telemetry.MetricThroughput,
			telemetry.MetricResourceUsage,
		} {
			if trend := e.store.Trend(state.ToolID, kind, trendWindow); len(trend) > 0 {
				trends[string(kind)] = trend
			}
		}

		summary.Tools = append(summary.Tools, ToolSummary{State: state, Trends: trends})
	}

	summary.OverallHealth = classifyHealth(healthy, len(states))
	return summary
}

func classifyHealth(healthy, total int) Health {
	if total == 0 {
		return HealthGood
	}

	ratio := float64(healthy) / float64(total)
	switch {
	case ratio >= 0.8:
		return HealthGood
	case ratio >= 0.6:
		return HealthDegraded
	default:
		return HealthPoor
	}
}

// TaskTypeCount is one task type with its selection count.
type TaskTypeCount struct {
	TaskType string `json:"taskType"`
	Count    int    `json:"count"`
}

// Insights aggregates the selection history.
type Insights struct {
	TotalOptimizations int             `json:"totalOptimizations"`
	AverageConfidence  float64         `json:"averageConfidence"`
	TopTaskTypes       []TaskTypeCount `json:"topTaskTypes"`
	Recommendations    []string        `json:"recommendations"`
}

// GetInsights reports selection totals, mean confidence, the five most
// frequent task types, and threshold-triggered recommendations.
func (e *Engine) GetInsights() Insights {
	history := e.History()

	insights := Insights{
		TotalOptimizations: len(history),
		Recommendations:    []string{},
		TopTaskTypes:       []TaskTypeCount{},
	}

	if len(history) > 0 {
		sum := 0.0
		counts := make(map[string]int)
		for _, record := range history {
			sum += record.Result.ConfidenceScore
			counts[record.Context.TaskType]++
		}
		insights.AverageConfidence = sum / float64(len(history))

		for taskType, count := range counts {
			insights.TopTaskTypes = append(insights.TopTaskTypes, TaskTypeCount{TaskType: taskType, Count: count})
		}
		sort.Slice(insights.TopTaskTypes, func(i, j int) bool {
			if insights.TopTaskTypes[i].Count != insights.TopTaskTypes[j].Count {
				return insights.TopTaskTypes[i].Count > insights.TopTaskTypes[j].Count
			}
			return insights.TopTaskTypes[i].TaskType < insights.TopTaskTypes[j].TaskType
		})
		if len(insights.TopTaskTypes) > 5 {
			insights.TopTaskTypes = insights.TopTaskTypes[:5]
		}
	}

	if len(history) > 0 && insights.AverageConfidence < 0.7 {
		insights.Recommendations = append(insights.Recommendations,
			fmt.Sprintf("mean selection confidence is low (%.2f); review capability tags or record more telemetry", insights.AverageConfidence))
	}
	if alertCount := e.store.AlertCount(); alertCount > 5 {
		insights.Recommendations = append(insights.Recommendations,
			fmt.Sprintf("%d threshold alerts retained; investigate degraded tools", alertCount))
	}

	return insights
}
