package tools

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGoTool(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go binary not available")
	}
}

func writeModule(t *testing.T, testBody string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.test\n\ngo 1.22\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sum_test.go"), []byte(testBody), 0o644))
	return dir
}

func TestRunTestsPassing(t *testing.T) {
	requireGoTool(t)
	dir := writeModule(t, `package example

import "testing"

func TestOK(t *testing.T) {}
`)

	tool := &RunTestsTool{Workspace: dir}
	result := tool.Execute(context.Background(), map[string]any{})
	require.True(t, result.Success(), result.Message)
	assert.Equal(t, 0, result.Data["exit_code"])
}

func TestRunTestsFailing(t *testing.T) {
	requireGoTool(t)
	dir := writeModule(t, `package example

import "testing"

func TestBroken(t *testing.T) { t.Fatal("expected failure") }
`)

	tool := &RunTestsTool{Workspace: dir}
	result := tool.Execute(context.Background(), map[string]any{})
	require.False(t, result.Success())
	output := result.Data["output"].(string)
	assert.Contains(t, output, "expected failure")
}
