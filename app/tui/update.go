package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lexcodex/counsel/config"
)

// flowResponseMsg carries the assistant reply back into the update loop.
type flowResponseMsg struct {
	text string
}

// flowErrorMsg wraps flow failures for display.
type flowErrorMsg struct {
	err error
}

// Init fulfills the Bubble Tea Model interface.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update applies incoming Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case flowResponseMsg:
		m.busy = false
		m.recordNewTurns()
		m.pushEntry(m.renderMarkdown(msg.text))
		return m, nil
	case flowErrorMsg:
		m.busy = false
		m.pushError(msg.err)
		return m, nil
	}
	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	feedHeight := msg.Height - 2
	if feedHeight < 1 {
		feedHeight = 1
	}
	if !m.ready {
		m.feed = viewport.New(msg.Width, feedHeight)
		m.ready = true
		m.feed.SetContent(strings.Join(m.entries, "\n\n"))
	} else {
		m.feed.Width = msg.Width
		m.feed.Height = feedHeight
	}
	m.input.Width = msg.Width - 4
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "ctrl+d":
		return m.quit()
	case "enter":
		return m.submit()
	case "up", "down", "pgup", "pgdown", "home", "end":
		var cmd tea.Cmd
		m.feed, cmd = m.feed.Update(msg)
		return m, cmd
	}
	if m.busy {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	raw := strings.TrimSpace(m.input.Value())
	if raw == "" {
		return m, nil
	}
	m.input.SetValue("")

	if strings.HasPrefix(raw, "/") {
		return m.runCommand(raw)
	}

	m.pushEntry(userStyle.Render("You: ") + raw)
	m.busy = true
	return m, tea.Batch(m.spinner.Tick, m.runFlow(raw))
}

// runFlow executes the active flow off the update loop. Tool calls happen
// inside the flow graph, so a single command covers the whole agent loop.
func (m Model) runFlow(input string) tea.Cmd {
	ctx := m.ctx
	flow := m.flow
	state := m.state
	return func() tea.Msg {
		text, err := flow.Run(ctx, state, input)
		if err != nil {
			return flowErrorMsg{err: err}
		}
		return flowResponseMsg{text: text}
	}
}

func (m Model) runCommand(raw string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(raw)
	switch fields[0] {
	case "/q", "/quit", "/exit":
		return m.quit()
	case "/r":
		m.state.Reset()
		m.recorded = 0
		m.pushEntry(dimStyle.Render("Conversation history cleared."))
		return m, nil
	case "/f":
		if len(fields) < 2 {
			m.pushError(fmt.Errorf("usage: /f <%s>", strings.Join(config.AvailableFlows(), "|")))
			return m, nil
		}
		if err := m.switchFlow(fields[1]); err != nil {
			m.pushError(err)
			return m, nil
		}
		m.pushEntry(dimStyle.Render(fmt.Sprintf("Switched to flow %q. History cleared.", fields[1])))
		return m, nil
	case "/s":
		path, err := m.saveTranscript()
		if err != nil {
			m.pushError(err)
			return m, nil
		}
		m.pushEntry(dimStyle.Render("Conversation saved to " + path))
		return m, nil
	case "/h", "/help":
		m.pushEntry(dimStyle.Render(commandInstructions()))
		return m, nil
	default:
		m.pushError(fmt.Errorf("unknown command %s", fields[0]))
		return m, nil
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.store != nil {
		_ = m.store.EndSession(m.ctx, m.sessionID)
	}
	return m, tea.Quit
}
