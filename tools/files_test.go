package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveFileCreatesFileInWorkspace(t *testing.T) {
	dir := t.TempDir()
	tool := &SaveFileTool{Workspace: dir}

	result := tool.Execute(context.Background(), map[string]any{
		"path":    "notes/report.md",
		"content": "# Report\n",
	})
	require.True(t, result.Success(), result.Message)

	written := filepath.Join(dir, "notes", "report.md")
	assert.Equal(t, written, result.Data["path"])
	data, err := os.ReadFile(written)
	require.NoError(t, err)
	assert.Equal(t, "# Report\n", string(data))
}

func TestSaveFileRejectsDisallowedSuffix(t *testing.T) {
	tool := &SaveFileTool{Workspace: t.TempDir()}
	result := tool.Execute(context.Background(), map[string]any{
		"path":    "script.sh",
		"content": "#!/bin/sh\n",
	})
	require.False(t, result.Success())
	assert.Contains(t, result.Message, "allowed file types")
}

func TestSaveFileRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "keep.md")
	require.NoError(t, os.WriteFile(existing, []byte("original"), 0o644))

	tool := &SaveFileTool{Workspace: dir}
	result := tool.Execute(context.Background(), map[string]any{
		"path":    "keep.md",
		"content": "new content",
	})
	require.False(t, result.Success())
	assert.Contains(t, result.Message, "already exists")

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}

func TestSaveFileRequiresPath(t *testing.T) {
	tool := &SaveFileTool{Workspace: t.TempDir()}
	result := tool.Execute(context.Background(), map[string]any{"content": "x"})
	require.False(t, result.Success())
	assert.Contains(t, result.Message, "path is required")
}

func TestWeatherTool(t *testing.T) {
	tool := &WeatherTool{}

	result := tool.Execute(context.Background(), map[string]any{"location": "San Francisco"})
	require.True(t, result.Success())
	assert.Equal(t, "It's sunny in San Francisco.", result.Message)

	result = tool.Execute(context.Background(), map[string]any{"location": "Prague"})
	require.True(t, result.Success())
	assert.Contains(t, result.Message, "not sure what the weather is in Prague")

	result = tool.Execute(context.Background(), map[string]any{})
	require.False(t, result.Success())
}

func TestBuildRegistryRegistersAllTools(t *testing.T) {
	registry := BuildRegistry(t.TempDir())
	for _, name := range []string{
		"get_weather", "save_file", "run_tests",
		"find_patterns", "get_source_code", "find_code_content",
	} {
		if _, ok := registry.Get(name); !ok {
			t.Errorf("tool %s not registered", name)
		}
	}
}
