package framework

import (
	"context"
	"testing"
)

type namedTool struct {
	name string
}

func (t namedTool) Name() string                { return t.name }
func (t namedTool) Description() string         { return "test tool" }
func (t namedTool) Parameters() []ToolParameter { return nil }
func (t namedTool) Execute(ctx context.Context, args map[string]any) *ToolResult {
	return Succeed("ok", nil)
}

func TestToolRegistryRegisterAndSelect(t *testing.T) {
	registry := NewToolRegistry()
	for _, name := range []string{"beta", "alpha"} {
		if err := registry.Register(namedTool{name: name}); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	if err := registry.Register(namedTool{name: "alpha"}); err == nil {
		t.Fatal("expected duplicate registration error")
	}

	all := registry.All()
	if len(all) != 2 || all[0].Name() != "alpha" || all[1].Name() != "beta" {
		t.Fatalf("expected sorted tools, got %v", all)
	}

	selected, err := registry.Select([]string{"alpha"})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(selected) != 1 || selected[0].Name() != "alpha" {
		t.Fatalf("unexpected selection %v", selected)
	}

	if _, err := registry.Select([]string{"alpha", "ghost"}); err == nil {
		t.Fatal("expected unknown tool error")
	}
}

func TestToolResultHelpers(t *testing.T) {
	ok := Succeed("done", map[string]any{"n": 1})
	if !ok.Success() || ok.Status != StatusSuccess {
		t.Fatalf("unexpected success result %+v", ok)
	}

	bad := Fail("missing %s", "file")
	if bad.Success() || bad.Status != StatusFailed {
		t.Fatalf("unexpected failure result %+v", bad)
	}
	if bad.Message != "missing file" {
		t.Fatalf("unexpected message %q", bad.Message)
	}
}
