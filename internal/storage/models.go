/*
Package storage provides data models for the selection archive.

These models represent archived selection events, metric samples, and
threshold alerts used for history queries and success-score overlays.
*/
package storage

import "time"

// SelectionEvent represents a single archived tool selection.
type SelectionEvent struct {
	// SelectionID is a unique identifier for this selection (UUID).
	SelectionID string `json:"selection_id"`

	// TaskType is the task the selection was optimized for.
	TaskType string `json:"task_type"`

	// ContextHash is the SHA256 hash of the task context for privacy.
	ContextHash string `json:"context_hash"`

	// SelectedTools are the chosen tool IDs in rank order.
	SelectedTools []string `json:"selected_tools"`

	// Confidence is the selection's confidence score.
	Confidence float64 `json:"confidence"`

	// Timestamp is when the selection was made.
	Timestamp time.Time `json:"timestamp"`
}

// MetricSample represents one archived metric observation.
type MetricSample struct {
	// ToolID is the tool the sample was reported for.
	ToolID string `json:"tool_id"`

	// Kind is the metric kind (responseTime, successRate, ...).
	Kind string `json:"kind"`

	// Value is the observed value.
	Value float64 `json:"value"`

	// Timestamp is when the sample was recorded.
	Timestamp time.Time `json:"timestamp"`
}

// AlertRecord represents one archived threshold alert.
type AlertRecord struct {
	ToolID    string    `json:"tool_id"`
	Kind      string    `json:"kind"`
	Value     float64   `json:"value"`
	Threshold float64   `json:"threshold"`
	Severity  string    `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
}
