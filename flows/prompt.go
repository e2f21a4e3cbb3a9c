package flows

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// promptFormatters maps placeholder names to value producers. Prompt texts may
// reference them as {name}; unknown placeholders are left untouched so literal
// braces in prompts survive.
var promptFormatters = map[string]func() string{
	"current_datetime": currentDatetime,
	"go_version":       goVersion,
}

func currentDatetime() string {
	return time.Now().Format("Monday, 02-01-2006 15:04 MST")
}

func goVersion() string {
	return strings.TrimPrefix(runtime.Version(), "go")
}

// expandPrompt substitutes registered placeholders in a prompt text.
func expandPrompt(text string) string {
	for name, format := range promptFormatters {
		placeholder := fmt.Sprintf("{%s}", name)
		if strings.Contains(text, placeholder) {
			text = strings.ReplaceAll(text, placeholder, format())
		}
	}
	return text
}
