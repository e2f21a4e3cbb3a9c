package flows

import (
	"strings"
	"testing"
)

func TestExpandPromptSubstitutesPlaceholders(t *testing.T) {
	out := expandPrompt("Today is {current_datetime}, running Go {go_version}.")
	if strings.Contains(out, "{current_datetime}") || strings.Contains(out, "{go_version}") {
		t.Fatalf("placeholders not expanded: %q", out)
	}
}

func TestExpandPromptLeavesUnknownBraces(t *testing.T) {
	in := "Literal {braces} survive."
	if out := expandPrompt(in); out != in {
		t.Fatalf("unexpected rewrite: %q", out)
	}
}
