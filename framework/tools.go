package framework

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Tool defines a capability an agent flow may invoke mid-conversation. The
// metadata doubles as a schema LLMs reason about when deciding which tool to
// call. Execute returns a failed ToolResult for expected problems (bad
// arguments, missing files); the error return is reserved for infrastructure
// failures the agent cannot act on.
type Tool interface {
	Name() string
	Description() string
	Parameters() []ToolParameter
	Execute(ctx context.Context, args map[string]any) *ToolResult
}

// ToolParameter describes an argument the tool accepts.
type ToolParameter struct {
	Name        string
	Type        string
	Description string
	Required    bool
	Default     any
}

// ToolResult is returned by every tool execution. Status mirrors the wire
// convention the agents expect: "success" or "failed" plus a human-readable
// message and structured payload.
type ToolResult struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// Success reports whether the tool completed without a failure status.
func (r *ToolResult) Success() bool { return r != nil && r.Status == StatusSuccess }

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Succeed builds a success result.
func Succeed(message string, data map[string]any) *ToolResult {
	return &ToolResult{Status: StatusSuccess, Message: message, Data: data}
}

// Fail builds a failed result the agent can read and react to.
func Fail(format string, args ...any) *ToolResult {
	return &ToolResult{Status: StatusFailed, Message: fmt.Sprintf(format, args...)}
}

// ToolRegistry maintains the static name to tool mapping flows resolve their
// configured tool lists against.
type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewToolRegistry builds a registry instance.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]Tool)}
}

// Register adds a tool to the registry.
func (r *ToolRegistry) Register(tool Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name()]; exists {
		return fmt.Errorf("tool %s already registered", tool.Name())
	}
	r.tools[tool.Name()] = tool
	return nil
}

// Get fetches a tool by name.
func (r *ToolRegistry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// All returns all registered tools sorted by name.
func (r *ToolRegistry) All() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		res = append(res, t)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name() < res[j].Name() })
	return res
}

// Select resolves a list of tool names, failing on the first unknown name so
// config typos surface at load time instead of mid-conversation.
func (r *ToolRegistry) Select(names []string) ([]Tool, error) {
	selected := make([]Tool, 0, len(names))
	for _, name := range names {
		tool, ok := r.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown tool %q", name)
		}
		selected = append(selected, tool)
	}
	return selected, nil
}
