/*
Package engine composes the optimization core behind a single facade.

The engine owns one performance store, one knowledge cache, one tool
selector, the capability registry, and a bounded history of past
selections. It exposes the public operations: selecting tools for a
task, recording telemetry, cache-first knowledge retrieval, aggregate
summaries and insights, and a one-way export snapshot.

The engine never invokes a chosen tool itself. Callers execute the
selection externally and report outcomes back via RecordMetric.
*/
package engine

import (
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/khanglvm/tool-optimizer/internal/cache"
	"github.com/khanglvm/tool-optimizer/internal/config"
	"github.com/khanglvm/tool-optimizer/internal/registry"
	"github.com/khanglvm/tool-optimizer/internal/search"
	"github.com/khanglvm/tool-optimizer/internal/selector"
	"github.com/khanglvm/tool-optimizer/internal/storage"
	"github.com/khanglvm/tool-optimizer/internal/telemetry"
)

// staticSuccessDefault seeds historicalSuccess for registered tools that
// have no archived telemetry yet.
const staticSuccessDefault = 0.8

// successScoreWindow bounds the archive lookback for historicalSuccess
// overlays.
const successScoreWindow = 7 * 24 * time.Hour

// OptimizationRecord snapshots one selection call.
type OptimizationRecord struct {
	Timestamp time.Time            `json:"timestamp"`
	Context   selector.TaskContext `json:"context"`
	Result    selector.Result      `json:"result"`
}

// Engine is the optimization facade. Safe for concurrent use.
type Engine struct {
	cfg      *config.Config
	registry *registry.Registry
	store    *telemetry.Store
	cache    *cache.Cache
	selector *selector.Selector
	indexer  *search.Indexer
	archive  storage.Storage

	mu      sync.Mutex
	history []OptimizationRecord
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry replaces the default capability registry.
func WithRegistry(reg *registry.Registry) Option {
	return func(e *Engine) { e.registry = reg }
}

// WithArchive replaces the default selection archive.
func WithArchive(archive storage.Storage) Option {
	return func(e *Engine) { e.archive = archive }
}

// New creates an engine from a configuration. A nil config uses
// defaults. Archive and search-index failures degrade the corresponding
// feature and are logged, never fatal.
func New(cfg *config.Config, opts ...Option) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}

	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}

	if e.registry == nil {
		e.registry = registry.Default()
	}

	storeOpts := []telemetry.Option{
		telemetry.WithHistorySize(cfg.MetricHistorySize),
		telemetry.WithAlertLogSize(cfg.AlertLogSize),
	}
	if t := cfg.Thresholds; t != nil {
		storeOpts = append(storeOpts, telemetry.WithThresholds(map[telemetry.MetricKind]float64{
			telemetry.MetricResponseTime:  t.ResponseTime,
			telemetry.MetricErrorRate:     t.ErrorRate,
			telemetry.MetricResourceUsage: t.ResourceUsage,
		}))
	}
	e.store = telemetry.NewStore(storeOpts...)
	e.cache = cache.New(cfg.CacheSize)
	e.selector = selector.New(e.registry, e.store)

	if indexer, err := search.NewIndexer(); err != nil {
		log.Printf("Warning: capability search disabled: %v", err)
	} else if err := indexer.IndexRegistry(e.registry); err != nil {
		log.Printf("Warning: capability search disabled: %v", err)
		indexer.Close()
	} else {
		e.indexer = indexer
	}

	if e.archive == nil && cfg.Archive != nil && cfg.Archive.Enabled {
		var archive *storage.SQLiteStorage
		if cfg.Archive.Path != "" {
			archive = storage.NewStorageAt(cfg.Archive.Path)
		} else {
			archive = storage.NewStorage()
		}
		if err := archive.Init(); err != nil {
			log.Printf("Warning: selection archive disabled: %v", err)
		}
		e.archive = archive
	}

	return e
}

// Close releases the engine's resources.
func (e *Engine) Close() error {
	if e.indexer != nil {
		if err := e.indexer.Close(); err != nil {
			log.Printf("Warning: failed to close search index: %v", err)
		}
	}
	if e.archive != nil {
		return e.archive.Close()
	}
	return nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// SelectTools selects tools for a task using the configured default
// strategy and method.
func (e *Engine) SelectTools(taskType string, requirements []string, constraints, preferences map[string]string) (selector.Result, error) {
	strategy, err := selector.ParseStrategy(e.cfg.DefaultStrategy)
	if err != nil {
		strategy = selector.StrategyBalanced
	}
	method, err := selector.ParseMethod(e.cfg.DefaultMethod)
	if err != nil {
		method = selector.MethodHybrid
	}
	return e.SelectToolsWith(taskType, requirements, constraints, preferences, strategy, method)
}

// SelectToolsWith selects tools for a task with an explicit strategy
// and method. The serialized result is cached under a hash of the task
// context, and an OptimizationRecord is appended to the bounded
// history.
func (e *Engine) SelectToolsWith(taskType string, requirements []string, constraints, preferences map[string]string, strategy selector.Strategy, method selector.Method) (selector.Result, error) {
	ctx := selector.TaskContext{
		TaskType:          taskType,
		Complexity:        inferComplexity(requirements),
		Requirements:      requirements,
		Constraints:       constraints,
		UserPreferences:   preferences,
		HistoricalSuccess: e.historicalSuccess(),
	}

	result := e.selector.Select(ctx, strategy, method)

	if serialized, err := json.Marshal(result); err == nil {
		e.cache.Set(e.contextFingerprint(ctx, strategy, method), serialized, true)
	}

	record := OptimizationRecord{
		Timestamp: time.Now(),
		Context:   ctx,
		Result:    result,
	}

	e.mu.Lock()
	e.history = append(e.history, record)
	if len(e.history) > e.cfg.HistorySize {
		e.history = e.history[len(e.history)-e.cfg.HistorySize:]
	}
	e.mu.Unlock()

	if e.archive != nil {
		e.archive.RecordSelection(storage.SelectionEvent{
			TaskType:      taskType,
			ContextHash:   e.contextFingerprint(ctx, strategy, method),
			SelectedTools: result.SelectedTools,
			Confidence:    result.ConfidenceScore,
			Timestamp:     record.Timestamp,
		})
	}

	return result, nil
}

// RecordMetric forwards one telemetry sample to the performance store
// and archives it. Returns the alert raised by the sample, if any.
func (e *Engine) RecordMetric(toolID, kind string, value float64) (*telemetry.Alert, error) {
	metricKind, err := telemetry.ParseMetricKind(kind)
	if err != nil {
		return nil, err
	}

	alert, err := e.store.Record(toolID, metricKind, value)
	if err != nil {
		return nil, err
	}

	if e.archive != nil {
		e.archive.RecordSample(storage.MetricSample{
			ToolID:    toolID,
			Kind:      kind,
			Value:     value,
			Timestamp: time.Now(),
		})
		if alert != nil {
			e.archive.RecordAlert(storage.AlertRecord{
				ToolID:    alert.ToolID,
				Kind:      string(alert.Kind),
				Value:     alert.Value,
				Threshold: alert.Threshold,
				Severity:  string(alert.Severity),
				Timestamp: alert.Timestamp,
			})
		}
	}

	return alert, nil
}

// RehydrateFromArchive replays archived metric samples from the given
// window into the in-memory performance store. A fresh engine (for
// example a new CLI process) calls this to recover tool state recorded
// by earlier processes. Invalid archived values are skipped.
func (e *Engine) RehydrateFromArchive(window time.Duration) error {
	if e.archive == nil {
		return nil
	}

	samples, err := e.archive.RecentSamples(time.Now().Add(-window))
	if err != nil {
		return err
	}

	for _, sample := range samples {
		kind, err := telemetry.ParseMetricKind(sample.Kind)
		if err != nil {
			continue
		}
		if _, err := e.store.Record(sample.ToolID, kind, sample.Value); err != nil {
			continue
		}
	}

	return nil
}

// History returns a snapshot of the optimization record history,
// oldest first.
func (e *Engine) History() []OptimizationRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	history := make([]OptimizationRecord, len(e.history))
	copy(history, e.history)
	return history
}

// CacheStats returns knowledge cache statistics.
func (e *Engine) CacheStats() cache.Stats {
	return e.cache.Snapshot()
}

// historicalSuccess builds the per-tool prior success map: a static
// default for every registered tool, overlaid with mean archived
// success rates when the archive is available.
func (e *Engine) historicalSuccess() map[string]float64 {
	success := make(map[string]float64, e.registry.Len())
	for _, id := range e.registry.IDs() {
		success[id] = staticSuccessDefault
	}

	if e.archive != nil {
		scores, err := e.archive.ToolSuccessScores(time.Now().Add(-successScoreWindow))
		if err == nil {
			for id, score := range scores {
				success[id] = score
			}
		}
	}

	return success
}

// contextFingerprint derives the cache key for a task context.
func (e *Engine) contextFingerprint(ctx selector.TaskContext, strategy selector.Strategy, method selector.Method) string {
	fingerprint := struct {
		Context  selector.TaskContext `json:"context"`
		Strategy selector.Strategy    `json:"strategy"`
		Method   selector.Method      `json:"method"`
	}{ctx, strategy, method}

	data, err := json.Marshal(fingerprint)
	if err != nil {
		return storage.HashContext(ctx.TaskType)
	}
	return storage.HashContext(string(data))
}

// complexKeywords and mediumKeywords drive complexity inference over
// the requirement tags.
var (
	complexKeywords = []string{"advanced", "complex", "comprehensive", "integration", "multiple"}
	mediumKeywords  = []string{"multiple", "several", "moderate"}
)

// inferComplexity classifies a task from keyword heuristics over its
// requirements. Unknown vocabularies default to medium.
func inferComplexity(requirements []string) selector.Complexity {
	joined := strings.ToLower(strings.Join(requirements, " "))

	for _, keyword := range complexKeywords {
		if strings.Contains(joined, keyword) {
			return selector.ComplexityComplex
		}
	}
	for _, keyword := range mediumKeywords {
		if strings.Contains(joined, keyword) {
			return selector.ComplexityMedium
		}
	}
	return selector.ComplexityMedium
}
