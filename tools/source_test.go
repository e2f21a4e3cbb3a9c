package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSourceCodeFunction(t *testing.T) {
	tool := &SourceCodeTool{Workspace: sampleWorkspace(t)}
	result := tool.Execute(context.Background(), map[string]any{
		"target_type": "function",
		"name":        "Shout",
	})
	require.True(t, result.Success(), result.Message)
	assert.Equal(t, "function", result.Data["kind"])
	code := result.Data["code"].(string)
	// the doc comment is part of the extracted snippet
	assert.Contains(t, code, "// Shout repeats a greeting loudly.")
	assert.Contains(t, code, "func Shout(name string) string {")
}

func TestGetSourceCodeMethodWithContext(t *testing.T) {
	tool := &SourceCodeTool{Workspace: sampleWorkspace(t)}
	result := tool.Execute(context.Background(), map[string]any{
		"target_type":     "method",
		"name":            "Greet",
		"include_context": true,
	})
	require.True(t, result.Success(), result.Message)
	assert.Contains(t, result.Data, "context")
	assert.Contains(t, result.Data, "context_lines")
}

func TestGetSourceCodeType(t *testing.T) {
	tool := &SourceCodeTool{Workspace: sampleWorkspace(t)}
	result := tool.Execute(context.Background(), map[string]any{
		"target_type": "type",
		"name":        "Greeter",
	})
	require.True(t, result.Success(), result.Message)
	code := result.Data["code"].(string)
	assert.Contains(t, code, "type Greeter struct {")
}

func TestGetSourceCodeWholeFile(t *testing.T) {
	dir := sampleWorkspace(t)
	path := filepath.Join(dir, "sample.go")
	tool := &SourceCodeTool{Workspace: dir}
	result := tool.Execute(context.Background(), map[string]any{
		"target_type": "file",
		"file_path":   path,
	})
	require.True(t, result.Success(), result.Message)
	assert.Equal(t, "file", result.Data["kind"])
	assert.Contains(t, result.Data["code"].(string), "package sample")
}

func TestGetSourceCodeErrors(t *testing.T) {
	tool := &SourceCodeTool{Workspace: sampleWorkspace(t)}

	result := tool.Execute(context.Background(), map[string]any{"target_type": "class", "name": "X"})
	require.False(t, result.Success())
	assert.Contains(t, result.Message, "invalid target_type")

	result = tool.Execute(context.Background(), map[string]any{"target_type": "function"})
	require.False(t, result.Success())
	assert.Contains(t, result.Message, "name is required")

	result = tool.Execute(context.Background(), map[string]any{"target_type": "function", "name": "Nope"})
	require.False(t, result.Success())
	assert.Contains(t, result.Message, `no function named "Nope"`)

	result = tool.Execute(context.Background(), map[string]any{"target_type": "file", "file_path": "/missing.go"})
	require.False(t, result.Success())
	assert.Contains(t, result.Message, "file not found")
}

func TestFindCodeContentLiteral(t *testing.T) {
	tool := &FindContentTool{Workspace: sampleWorkspace(t)}
	result := tool.Execute(context.Background(), map[string]any{
		"query": "TrimSpace",
	})
	require.True(t, result.Success(), result.Message)
	found := result.Data["results"].([]ContentMatch)
	require.Len(t, found, 1)
	assert.Contains(t, found[0].MatchedLine, "strings.TrimSpace")

	summary := result.Data["summary"].(map[string]any)
	assert.Equal(t, false, summary["is_regex"])
}

func TestFindCodeContentRegex(t *testing.T) {
	tool := &FindContentTool{Workspace: sampleWorkspace(t)}
	result := tool.Execute(context.Background(), map[string]any{
		"query": `/func \w+\(name string\)/`,
	})
	require.True(t, result.Success(), result.Message)
	found := result.Data["results"].([]ContentMatch)
	assert.Len(t, found, 1)

	summary := result.Data["summary"].(map[string]any)
	assert.Equal(t, true, summary["is_regex"])
}

func TestFindCodeContentMaxResults(t *testing.T) {
	tool := &FindContentTool{Workspace: sampleWorkspace(t)}
	result := tool.Execute(context.Background(), map[string]any{
		"query":       "string",
		"max_results": float64(2),
	})
	require.True(t, result.Success(), result.Message)
	found := result.Data["results"].([]ContentMatch)
	assert.Len(t, found, 2)

	summary := result.Data["summary"].(map[string]any)
	assert.Equal(t, true, summary["truncated"])
}

func TestFindCodeContentClampsBadNumericArgs(t *testing.T) {
	tool := &FindContentTool{Workspace: sampleWorkspace(t)}

	// a negative context window collapses to the matched line alone
	result := tool.Execute(context.Background(), map[string]any{
		"query":         "TrimSpace",
		"context_lines": float64(-2),
	})
	require.True(t, result.Success(), result.Message)
	found := result.Data["results"].([]ContentMatch)
	require.Len(t, found, 1)
	assert.Contains(t, found[0].Context, "TrimSpace")

	result = tool.Execute(context.Background(), map[string]any{
		"query":       "string",
		"max_results": float64(-5),
	})
	require.True(t, result.Success(), result.Message)
	assert.Len(t, result.Data["results"].([]ContentMatch), 1)
}

func TestFindCodeContentFilePattern(t *testing.T) {
	dir := sampleWorkspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("a needle in here\n"), 0o644))
	tool := &FindContentTool{Workspace: dir}

	result := tool.Execute(context.Background(), map[string]any{
		"query":        "needle",
		"file_pattern": "**/*.txt",
	})
	require.True(t, result.Success(), result.Message)
	found := result.Data["results"].([]ContentMatch)
	require.Len(t, found, 1)
	assert.Contains(t, found[0].File, "notes.txt")

	// the default pattern only searches Go sources
	result = tool.Execute(context.Background(), map[string]any{"query": "needle"})
	require.True(t, result.Success(), result.Message)
	assert.Empty(t, result.Data["results"].([]ContentMatch))
}

func TestFindCodeContentTruncatedOnlyWhenMatchesSkipped(t *testing.T) {
	tool := &FindContentTool{Workspace: sampleWorkspace(t)}
	result := tool.Execute(context.Background(), map[string]any{
		"query":       "TrimSpace",
		"max_results": float64(1),
	})
	require.True(t, result.Success(), result.Message)
	require.Len(t, result.Data["results"].([]ContentMatch), 1)

	// the single match fills the cap exactly, nothing was left out
	summary := result.Data["summary"].(map[string]any)
	assert.Equal(t, false, summary["truncated"])
}

func TestFindCodeContentRequiresQuery(t *testing.T) {
	tool := &FindContentTool{Workspace: sampleWorkspace(t)}
	result := tool.Execute(context.Background(), map[string]any{})
	require.False(t, result.Success())
	assert.Contains(t, result.Message, "query is required")
}
