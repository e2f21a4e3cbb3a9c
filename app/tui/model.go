// Package tui is the Bubble Tea chat front-end: a scrollable feed, a prompt
// bar, and a status bar, with slash commands for switching flows and saving
// transcripts.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/lexcodex/counsel/flows"
	"github.com/lexcodex/counsel/framework"
	"github.com/lexcodex/counsel/persistence"
)

// Options configures a chat session.
type Options struct {
	Manager   *flows.Manager
	FlowName  string
	Store     *persistence.SessionStore
	ExportDir string
}

// Run starts the chat program and blocks until the user exits.
func Run(ctx context.Context, opts Options) error {
	if opts.Manager == nil {
		return errors.New("flow manager is required")
	}
	model, err := NewModel(ctx, opts)
	if err != nil {
		return err
	}
	program := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// Model coordinates the feed, prompt bar, and status bar.
type Model struct {
	// ctx is the program context; cancelling it aborts in-flight flow runs.
	ctx context.Context

	manager *flows.Manager
	flow    *flows.Flow
	state   *framework.State

	store     *persistence.SessionStore
	sessionID int64
	recorded  int
	exportDir string

	feed    viewport.Model
	input   textinput.Model
	spinner spinner.Model

	entries []string
	busy    bool

	width  int
	height int
	ready  bool
}

// NewModel opens the initial flow and builds the widget tree.
func NewModel(ctx context.Context, opts Options) (Model, error) {
	flow, err := opts.Manager.Open(opts.FlowName)
	if err != nil {
		return Model{}, err
	}

	input := textinput.New()
	input.Placeholder = "Type a message or /h for commands"
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := Model{
		ctx:       ctx,
		manager:   opts.Manager,
		flow:      flow,
		state:     framework.NewState(),
		store:     opts.Store,
		exportDir: opts.ExportDir,
		feed:      viewport.New(0, 0),
		input:     input,
		spinner:   sp,
	}
	m.entries = append(m.entries, bannerStyle.Render(introBanner()), dimStyle.Render(commandInstructions()))

	if m.store != nil {
		id, err := m.store.BeginSession(ctx, flow.Name())
		if err != nil {
			return Model{}, err
		}
		m.sessionID = id
	}
	return m, nil
}

// switchFlow opens another flow and clears the conversation.
func (m *Model) switchFlow(name string) error {
	flow, err := m.manager.Open(name)
	if err != nil {
		return err
	}
	m.flow = flow
	m.state.Reset()
	m.recorded = 0
	if m.store != nil {
		_ = m.store.EndSession(m.ctx, m.sessionID)
		if id, err := m.store.BeginSession(m.ctx, name); err == nil {
			m.sessionID = id
		}
	}
	return nil
}

// recordNewTurns persists transcript entries added since the last call.
func (m *Model) recordNewTurns() {
	if m.store == nil {
		return
	}
	msgs := m.state.Messages()
	for ; m.recorded < len(msgs); m.recorded++ {
		_ = m.store.RecordTurn(m.ctx, m.sessionID, msgs[m.recorded])
	}
}

// renderMarkdown renders assistant replies through glamour, falling back to
// the raw text when rendering fails.
func (m Model) renderMarkdown(text string) string {
	width := m.width - 2
	if width < 20 {
		width = 78
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

func (m *Model) pushEntry(entry string) {
	m.entries = append(m.entries, entry)
	m.feed.SetContent(strings.Join(m.entries, "\n\n"))
	m.feed.GotoBottom()
}

func (m *Model) pushError(err error) {
	m.pushEntry(errorStyle.Render(fmt.Sprintf("error: %v", err)))
}

func introBanner() string {
	return strings.Join([]string{
		``,
		`   ____                          _ `,
		`  / ___|___  _   _ _ __  ___  ___| |`,
		` | |   / _ \| | | | '_ \/ __|/ _ \ |`,
		` | |__| (_) | |_| | | | \__ \  __/ |`,
		`  \____\___/ \__,_|_| |_|___/\___|_|`,
		``,
		`Welcome to Counsel, a set of LLM flows for simple everyday tasks.`,
	}, "\n")
}

func commandInstructions() string {
	return strings.Join([]string{
		"To exit write: /q",
		"To save conversation history to markdown write: /s",
		"To reset conversation history write: /r",
		"To change the used flow and clear history write: /f <flow>",
		"To show this help write: /h",
	}, "; ")
}
