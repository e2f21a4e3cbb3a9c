package persistence

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lexcodex/counsel/framework"
)

// TranscriptFilename builds the timestamped name a saved conversation gets,
// e.g. chat_2026-08-31_14-05-09.md.
func TranscriptFilename(flow string, at time.Time) string {
	if flow == "" {
		flow = "chat"
	}
	return fmt.Sprintf("%s_%s.md", flow, at.Format("2006-01-02_15-04-05"))
}

// RenderTranscript formats a conversation as Markdown. Tool messages are
// rendered as fenced JSON blocks so the raw result stays readable.
func RenderTranscript(flow string, messages []framework.Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Conversation (%s)\n\n", flow)
	fmt.Fprintf(&b, "Saved %s\n", time.Now().Format("2006-01-02 15:04:05"))

	for _, msg := range messages {
		switch msg.Role {
		case framework.RoleUser:
			b.WriteString("\n## User\n\n")
			b.WriteString(msg.Content)
			b.WriteString("\n")
		case framework.RoleAssistant:
			b.WriteString("\n## Assistant\n\n")
			if msg.Content != "" {
				b.WriteString(msg.Content)
				b.WriteString("\n")
			}
			for _, call := range msg.ToolCalls {
				fmt.Fprintf(&b, "\n*Requested tool `%s`*\n", call.Name)
			}
		case framework.RoleTool:
			fmt.Fprintf(&b, "\n## Tool `%s`\n\n```json\n%s\n```\n", msg.Name, msg.Content)
		}
	}
	return b.String()
}

// SaveTranscript writes the rendered conversation into dir and returns the
// full path. The file must not already exist.
func SaveTranscript(dir, flow string, messages []framework.Message) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("nothing to save: conversation is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, TranscriptFilename(flow, time.Now()))
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("transcript %s already exists", path)
	}
	if err := os.WriteFile(path, []byte(RenderTranscript(flow, messages)), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
