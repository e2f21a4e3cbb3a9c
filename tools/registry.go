package tools

import (
	"github.com/lexcodex/counsel/framework"
)

// BuildRegistry assembles the full tool set rooted at the given workspace.
// Flow configs select from these by name.
func BuildRegistry(workspace string) *framework.ToolRegistry {
	registry := framework.NewToolRegistry()
	for _, tool := range []framework.Tool{
		&WeatherTool{},
		&SaveFileTool{Workspace: workspace},
		&RunTestsTool{Workspace: workspace},
		&FindPatternsTool{Workspace: workspace},
		&SourceCodeTool{Workspace: workspace},
		&FindContentTool{Workspace: workspace},
	} {
		// Names are static and unique; a collision is a programming error.
		if err := registry.Register(tool); err != nil {
			panic(err)
		}
	}
	return registry
}
