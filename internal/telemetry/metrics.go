/*
Package telemetry implements the performance store for backend tools.

It ingests metric samples per (tool, metric kind), maintains the current
aggregated state for each tool, keeps a bounded recent history for trend
queries, and raises threshold alerts when a sample crosses a configured
limit. All lookups are total functions: unknown tools or metric kinds
return absent results, never errors.
*/
package telemetry

import (
	"errors"
	"fmt"
	"time"
)

// MetricKind identifies a kind of performance metric.
type MetricKind string

const (
	MetricResponseTime  MetricKind = "responseTime"
	MetricSuccessRate   MetricKind = "successRate"
	MetricErrorRate     MetricKind = "errorRate"
	MetricThroughput    MetricKind = "throughput"
	MetricResourceUsage MetricKind = "resourceUsage"
)

// ParseMetricKind converts a string to a MetricKind.
func ParseMetricKind(s string) (MetricKind, error) {
	switch MetricKind(s) {
	case MetricResponseTime, MetricSuccessRate, MetricErrorRate,
		MetricThroughput, MetricResourceUsage:
		return MetricKind(s), nil
	}
	return "", fmt.Errorf("unknown metric kind: %q", s)
}

// ErrInvalidMetricValue is returned when a sample value is rejected
// (non-finite or negative).
var ErrInvalidMetricValue = errors.New("invalid metric value")

// Sample is a single metric observation for a tool.
type Sample struct {
	ToolID    string     `json:"toolId"`
	Kind      MetricKind `json:"kind"`
	Value     float64    `json:"value"`
	Timestamp time.Time  `json:"timestamp"`
}

// ToolState is the current aggregated performance state of a tool.
//
// Each field is independently overwritten by the most recent sample of
// its kind. A state is created lazily on the first sample for a tool,
// with SuccessRate defaulting to 1.0 and all other metrics to 0.0.
type ToolState struct {
	ToolID        string    `json:"toolId"`
	ResponseTime  float64   `json:"responseTime"`
	SuccessRate   float64   `json:"successRate"`
	ErrorRate     float64   `json:"errorRate"`
	Throughput    float64   `json:"throughput"`
	ResourceUsage float64   `json:"resourceUsage"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// AlertSeverity classifies how far a sample exceeded its threshold.
type AlertSeverity string

const (
	// SeverityMedium means the value exceeded the threshold by up to 50%.
	SeverityMedium AlertSeverity = "medium"

	// SeverityHigh means the value exceeded 1.5x the threshold.
	SeverityHigh AlertSeverity = "high"
)

// Alert records a sample that crossed a configured threshold.
type Alert struct {
	ToolID    string        `json:"toolId"`
	Kind      MetricKind    `json:"kind"`
	Value     float64       `json:"value"`
	Threshold float64       `json:"threshold"`
	Severity  AlertSeverity `json:"severity"`
	Timestamp time.Time     `json:"timestamp"`
}

// DefaultThresholds returns the per-metric alert thresholds.
func DefaultThresholds() map[MetricKind]float64 {
	return map[MetricKind]float64{
		MetricResponseTime:  5.0,
		MetricErrorRate:     0.1,
		MetricResourceUsage: 0.8,
	}
}
