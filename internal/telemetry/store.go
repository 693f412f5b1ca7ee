package telemetry

import (
	"math"
	"sort"
	"sync"
	"time"
)

const (
	// DefaultHistorySize is the per-(tool, metric) sample history capacity.
	DefaultHistorySize = 1000

	// DefaultAlertLogSize caps the alert log. The oldest alert is dropped
	// when the log is full.
	DefaultAlertLogSize = 500
)

// historyKey identifies one bounded sample history.
type historyKey struct {
	toolID string
	kind   MetricKind
}

// Store is the shared performance store.
//
// It is safe for concurrent use: a single mutex guards all state, since
// decision calls and telemetry ingestion may run on different goroutines.
type Store struct {
	mu          sync.Mutex
	historySize int
	alertCap    int
	thresholds  map[MetricKind]float64
	history     map[historyKey][]Sample
	states      map[string]*ToolState
	alerts      []Alert
}

// Option configures a Store.
type Option func(*Store)

// WithHistorySize overrides the per-(tool, metric) history capacity.
func WithHistorySize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.historySize = n
		}
	}
}

// WithAlertLogSize overrides the alert log capacity.
func WithAlertLogSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.alertCap = n
		}
	}
}

// WithThresholds overrides the alert threshold table.
func WithThresholds(t map[MetricKind]float64) Option {
	return func(s *Store) {
		if t != nil {
			s.thresholds = t
		}
	}
}

// NewStore creates a performance store with default capacities and
// thresholds.
func NewStore(opts ...Option) *Store {
	s := &Store{
		historySize: DefaultHistorySize,
		alertCap:    DefaultAlertLogSize,
		thresholds:  DefaultThresholds(),
		history:     make(map[historyKey][]Sample),
		states:      make(map[string]*ToolState),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record ingests one metric sample.
//
// Non-finite and negative values are rejected with ErrInvalidMetricValue.
// Rate and usage metrics (successRate, errorRate, resourceUsage) are
// clamped to [0, 1]. Returns the alert raised by this sample, if any.
func (s *Store) Record(toolID string, kind MetricKind, value float64) (*Alert, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return nil, ErrInvalidMetricValue
	}

	switch kind {
	case MetricSuccessRate, MetricErrorRate, MetricResourceUsage:
		if value > 1.0 {
			value = 1.0
		}
	}

	now := time.Now()
	sample := Sample{ToolID: toolID, Kind: kind, Value: value, Timestamp: now}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := historyKey{toolID: toolID, kind: kind}
	samples := append(s.history[key], sample)
	if len(samples) > s.historySize {
		samples = samples[len(samples)-s.historySize:]
	}
	s.history[key] = samples

	state, ok := s.states[toolID]
	if !ok {
		state = &ToolState{ToolID: toolID, SuccessRate: 1.0}
		s.states[toolID] = state
	}
	switch kind {
	case MetricResponseTime:
		state.ResponseTime = value
	case MetricSuccessRate:
		state.SuccessRate = value
	case MetricErrorRate:
		state.ErrorRate = value
	case MetricThroughput:
		state.Throughput = value
	case MetricResourceUsage:
		state.ResourceUsage = value
	}
	if now.After(state.LastUpdated) {
		state.LastUpdated = now
	}

	return s.checkThreshold(toolID, kind, value, now), nil
}

// checkThreshold evaluates the threshold table for a sample and appends
// an alert to the bounded log when exceeded. Caller must hold s.mu.
func (s *Store) checkThreshold(toolID string, kind MetricKind, value float64, ts time.Time) *Alert {
	threshold, ok := s.thresholds[kind]
	if !ok || value <= threshold {
		return nil
	}

	severity := SeverityMedium
	if value > threshold*1.5 {
		severity = SeverityHigh
	}

	alert := Alert{
		ToolID:    toolID,
		Kind:      kind,
		Value:     value,
		Threshold: threshold,
		Severity:  severity,
		Timestamp: ts,
	}

	s.alerts = append(s.alerts, alert)
	if len(s.alerts) > s.alertCap {
		s.alerts = s.alerts[len(s.alerts)-s.alertCap:]
	}

	return &alert
}

// State returns the current performance state for a tool.
// The second return value is false when the tool is unknown.
func (s *Store) State(toolID string) (ToolState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[toolID]
	if !ok {
		return ToolState{}, false
	}
	return *state, true
}

// States returns a snapshot of all tool states, sorted by tool ID.
func (s *Store) States() []ToolState {
	s.mu.Lock()
	defer s.mu.Unlock()

	states := make([]ToolState, 0, len(s.states))
	for _, state := range s.states {
		states = append(states, *state)
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i].ToolID < states[j].ToolID
	})
	return states
}

// Trend returns the sample values for (toolID, kind) recorded within the
// given window, ordered oldest to newest. Unknown keys yield an empty
// slice.
func (s *Store) Trend(toolID string, kind MetricKind, window time.Duration) []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-window)
	samples := s.history[historyKey{toolID: toolID, kind: kind}]

	values := make([]float64, 0, len(samples))
	for _, sample := range samples {
		if sample.Timestamp.Before(cutoff) {
			continue
		}
		values = append(values, sample.Value)
	}
	return values
}

// Alerts returns a snapshot of the alert log, oldest first.
func (s *Store) Alerts() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	alerts := make([]Alert, len(s.alerts))
	copy(alerts, s.alerts)
	return alerts
}

// AlertCount returns the number of alerts currently retained.
func (s *Store) AlertCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.alerts)
}
