// Package config loads flow configuration from YAML files and provider
// credentials from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Flow names known to the CLI. Configs live under the configs directory as
// <name>.yaml.
const (
	FlowChat   = "chat"
	FlowDocs   = "docs"
	FlowTester = "tester"
)

// AvailableFlows lists the flows shipped with the CLI, in display order.
func AvailableFlows() []string {
	return []string{FlowChat, FlowDocs, FlowTester}
}

// LLMParameters tunes a single model call.
type LLMParameters struct {
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutSecs int     `yaml:"timeout"`
}

// AgentParameters bounds the agent loop.
type AgentParameters struct {
	MaxIterations int `yaml:"max_iterations"`
}

// PromptTurn is one configured system prompt message.
type PromptTurn struct {
	Side string `yaml:"side"`
	Text string `yaml:"text"`
}

// FlowConfig is the YAML schema for one flow. Tools is empty for plain chat
// flows; agent flows list the tool names they are permitted to call.
type FlowConfig struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Version     string        `yaml:"version"`
	Tags        []string      `yaml:"tags"`
	LLMName     string        `yaml:"llm_name"`
	LLMParams   LLMParameters `yaml:"llm_params"`

	PromptHistory []PromptTurn `yaml:"prompt_history"`

	Agent AgentParameters `yaml:"agent"`
	Tools []string        `yaml:"tools"`
}

// IsAgent reports whether the flow runs the tool-dispatch loop.
func (c *FlowConfig) IsAgent() bool { return len(c.Tools) > 0 }

func (c *FlowConfig) applyDefaults() {
	if c.Version == "" {
		c.Version = "0.0.0"
	}
	if c.LLMName == "" {
		c.LLMName = "gpt-4.1"
	}
	if c.LLMParams.MaxTokens == 0 {
		c.LLMParams.MaxTokens = 512
	}
	if c.LLMParams.TimeoutSecs == 0 {
		c.LLMParams.TimeoutSecs = 30
	}
	if c.Agent.MaxIterations == 0 {
		c.Agent.MaxIterations = 5
	}
}

func (c *FlowConfig) validate() error {
	if c.Name == "" {
		return fmt.Errorf("flow config missing name")
	}
	for i, turn := range c.PromptHistory {
		if turn.Side == "" || turn.Text == "" {
			return fmt.Errorf("prompt_history entry %d missing side or text", i)
		}
	}
	return nil
}

// Loader reads flow configs from a directory and caches parsed results. Parsed
// configs are immutable after construction, so one load serves the whole run.
type Loader struct {
	dir   string
	mu    sync.Mutex
	cache map[string]*FlowConfig
}

// NewLoader builds a loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir, cache: make(map[string]*FlowConfig)}
}

// Flow returns the parsed config for the named flow.
func (l *Loader) Flow(name string) (*FlowConfig, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("flow name required")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if cfg, ok := l.cache[key]; ok {
		return cfg, nil
	}
	path := filepath.Join(l.dir, key+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no config for flow %q (looked for %s): %w", key, path, err)
		}
		return nil, fmt.Errorf("read flow config %s: %w", path, err)
	}
	var cfg FlowConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse flow config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("flow config %s: %w", path, err)
	}
	l.cache[key] = &cfg
	return &cfg, nil
}
