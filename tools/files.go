package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/lexcodex/counsel/framework"
)

// allowedSuffixes limits what an agent may write to disk.
var allowedSuffixes = []string{".md", ".go"}

// SaveFileTool creates a new file, never overwriting an existing one. The
// suffix allowlist keeps an agent from scribbling executables or dotfiles.
type SaveFileTool struct {
	Workspace string
}

func (t *SaveFileTool) Name() string { return "save_file" }
func (t *SaveFileTool) Description() string {
	return "Save content to a new file, creating directories as needed. Allowed suffixes: " + strings.Join(allowedSuffixes, ", ")
}
func (t *SaveFileTool) Parameters() []framework.ToolParameter {
	return []framework.ToolParameter{
		{Name: "path", Type: "string", Required: true, Description: "Destination path for the new file"},
		{Name: "content", Type: "string", Required: true, Description: "File content to write"},
	}
}

func (t *SaveFileTool) Execute(ctx context.Context, args map[string]any) *framework.ToolResult {
	path := argString(args, "path", "")
	if path == "" {
		return framework.Fail("path is required")
	}
	content := argString(args, "content", "")
	if !filepath.IsAbs(path) && t.Workspace != "" {
		path = filepath.Join(t.Workspace, path)
	}

	suffix := strings.ToLower(filepath.Ext(path))
	if !suffixAllowed(suffix) {
		msg := fmt.Sprintf("file %q not created, allowed file types: %s", path, strings.Join(allowedSuffixes, ", "))
		log.Warn().Str("path", path).Msg(msg)
		return framework.Fail("%s", msg)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return framework.Fail("could not create parent directories: %v", err)
	}
	if _, err := os.Stat(path); err == nil {
		log.Error().Str("path", path).Msg("refusing to overwrite existing file")
		return framework.Fail("file already exists: %s", path)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return framework.Fail("could not write file: %v", err)
	}
	return framework.Succeed(fmt.Sprintf("file created at %s", path), map[string]any{"path": path})
}

func suffixAllowed(suffix string) bool {
	for _, allowed := range allowedSuffixes {
		if suffix == allowed {
			return true
		}
	}
	return false
}
