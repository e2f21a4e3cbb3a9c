package flows

import (
	"fmt"
	"sort"

	"github.com/lexcodex/counsel/config"
	"github.com/lexcodex/counsel/framework"
	"github.com/lexcodex/counsel/llm"
)

// Manager opens flows by name. It owns the config loader, the provider
// settings, and the tool registry, so callers only deal with flow names.
type Manager struct {
	loader   *config.Loader
	settings *config.Settings
	registry *framework.ToolRegistry
}

// NewManager wires the manager's dependencies.
func NewManager(loader *config.Loader, settings *config.Settings, registry *framework.ToolRegistry) *Manager {
	return &Manager{loader: loader, settings: settings, registry: registry}
}

// Open loads the named flow config, builds its model, and returns the runnable
// flow.
func (m *Manager) Open(name string) (*Flow, error) {
	cfg, err := m.loader.Flow(name)
	if err != nil {
		return nil, err
	}
	model, err := llm.NewModel(m.settings, cfg.LLMName)
	if err != nil {
		return nil, fmt.Errorf("flow %s: %w", name, err)
	}
	return New(cfg, model, m.registry)
}

// List returns the configs of all known flows, sorted by name.
func (m *Manager) List() ([]*config.FlowConfig, error) {
	names := config.AvailableFlows()
	configs := make([]*config.FlowConfig, 0, len(names))
	for _, name := range names {
		cfg, err := m.loader.Flow(name)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].Name < configs[j].Name })
	return configs, nil
}
