package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lexcodex/counsel/persistence"
)

// View composes the scrollable feed, prompt bar, and status bar.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.feed.View(),
		m.renderPromptBar(),
		m.renderStatusBar(),
	)
}

func (m Model) renderPromptBar() string {
	if m.busy {
		return promptBarStyle.Width(m.width).Render(m.spinner.View() + " thinking...")
	}
	return promptBarStyle.Width(m.width).Render("> " + m.input.View())
}

func (m Model) renderStatusBar() string {
	cfg := m.flow.Config()
	left := fmt.Sprintf("flow: %s | model: %s", cfg.Name, cfg.LLMName)
	right := fmt.Sprintf("%d messages", m.state.Len())
	padding := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}
	return statusStyle.Render(left + strings.Repeat(" ", padding) + right)
}

func (m *Model) saveTranscript() (string, error) {
	return persistence.SaveTranscript(m.exportDir, m.flow.Name(), m.state.Messages())
}
