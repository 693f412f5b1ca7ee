/*
Package registry holds the static capability metadata for backend tools.

The registry is a read-only table mapping tool IDs to capability tags,
strength tags, and best-for tags. It preserves registration order, and
that order is the iteration order everywhere tools are enumerated, so
selection results are deterministic for identical inputs.
*/
package registry

import "sync"

// ToolCapability describes what a single backend tool can do.
type ToolCapability struct {
	// ToolID identifies the backend tool.
	ToolID string `json:"toolId"`

	// Capabilities are the capability tags used for task matching.
	Capabilities []string `json:"capabilities"`

	// Strengths are descriptive tags for what the tool is notably good at.
	Strengths []string `json:"strengths"`

	// BestFor lists task kinds the tool is recommended for.
	BestFor []string `json:"bestFor"`

	// PerformanceWeight is carried for future scoring use; no current
	// formula consumes it.
	PerformanceWeight float64 `json:"performanceWeight"`
}

// HasCapability reports whether the tool carries a capability tag.
func (t ToolCapability) HasCapability(tag string) bool {
	for _, c := range t.Capabilities {
		if c == tag {
			return true
		}
	}
	return false
}

// Matches reports whether the tool's capability set intersects tags.
func (t ToolCapability) Matches(tags []string) bool {
	for _, tag := range tags {
		if t.HasCapability(tag) {
			return true
		}
	}
	return false
}

// Registry is the capability table. Registration order is preserved.
type Registry struct {
	mu    sync.RWMutex
	order []string
	tools map[string]ToolCapability
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{tools: make(map[string]ToolCapability)}
}

// Register adds or replaces a tool entry. A replaced entry keeps its
// original position in the registration order.
func (r *Registry) Register(tool ToolCapability) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.ToolID]; !exists {
		r.order = append(r.order, tool.ToolID)
	}
	r.tools[tool.ToolID] = tool
}

// Get returns the entry for toolID. The second return value is false
// when the tool is unknown.
func (r *Registry) Get(toolID string) (ToolCapability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[toolID]
	return tool, ok
}

// IDs returns all tool IDs in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// Tools returns all entries in registration order.
func (r *Registry) Tools() []ToolCapability {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]ToolCapability, 0, len(r.order))
	for _, id := range r.order {
		tools = append(tools, r.tools[id])
	}
	return tools
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Default returns a registry seeded with the known backend tools.
func Default() *Registry {
	r := New()
	for _, tool := range defaultTools {
		r.Register(tool)
	}
	return r
}

// defaultTools is the static capability table for the known backends.
var defaultTools = []ToolCapability{
	{
		ToolID:            "web-search",
		Capabilities:      []string{"web_search", "information_retrieval"},
		Strengths:         []string{"freshness", "coverage"},
		BestFor:           []string{"research", "fact_checking"},
		PerformanceWeight: 1.0,
	},
	{
		ToolID:            "code-analyzer",
		Capabilities:      []string{"code_analysis", "static_analysis", "quality_assurance"},
		Strengths:         []string{"precision", "language_coverage"},
		BestFor:           []string{"code_review", "refactoring"},
		PerformanceWeight: 1.1,
	},
	{
		ToolID:            "test-runner",
		Capabilities:      []string{"automated_testing", "quality_assurance"},
		Strengths:         []string{"isolation", "reporting"},
		BestFor:           []string{"testing", "regression_detection"},
		PerformanceWeight: 0.9,
	},
	{
		ToolID:            "doc-generator",
		Capabilities:      []string{"documentation", "template_rendering", "content_generation"},
		Strengths:         []string{"formatting", "consistency"},
		BestFor:           []string{"documentation", "reporting"},
		PerformanceWeight: 1.0,
	},
	{
		ToolID:            "data-transformer",
		Capabilities:      []string{"data_transformation", "format_conversion"},
		Strengths:         []string{"throughput", "schema_handling"},
		BestFor:           []string{"data_processing", "migration"},
		PerformanceWeight: 1.2,
	},
	{
		ToolID:            "api-gateway",
		Capabilities:      []string{"api_integration", "external_services"},
		Strengths:         []string{"reliability", "protocol_support"},
		BestFor:           []string{"integration", "orchestration"},
		PerformanceWeight: 0.8,
	},
}
