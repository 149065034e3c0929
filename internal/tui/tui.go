// Package tui is the terminal client. It is a pure renderer: every task
// mutation goes to the server, and the screen redraws from the state
// snapshot that rides along with each response. The client keeps no
// scoring logic of its own.
package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/rcliao/taskpilot/internal/client"
	"github.com/rcliao/taskpilot/internal/domain"
	"github.com/rcliao/taskpilot/internal/protocol"
)

// focus selects which part of the screen receives key input.
type focus int

const (
	focusInput focus = iota
	focusList
)

// eventMsg wraps a client event for the bubbletea loop.
type eventMsg client.Event

// channelClosedMsg signals the client run loop has exited.
type channelClosedMsg struct{}

type Model struct {
	client *client.Client
	cancel context.CancelFunc
	log    zerolog.Logger

	state     domain.State
	lastResp  *protocol.Response
	connected bool

	input   textinput.Model
	focus   focus
	cursor  int
	editing string // task id being edited, empty otherwise

	width  int
	height int
}

func NewModel(c *client.Client, cancel context.CancelFunc, log zerolog.Logger) Model {
	input := textinput.New()
	input.Placeholder = "Describe a task..."
	input.CharLimit = 200
	input.Focus()

	return Model{
		client: c,
		cancel: cancel,
		log:    log,
		state:  domain.State{Tasks: []*domain.Task{}, Confidence: domain.DefaultConfidence},
		input:  input,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForEvent())
}

func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.client.Events()
		if !ok {
			return channelClosedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case channelClosedMsg:
		return m, tea.Quit

	case eventMsg:
		return m.handleEvent(client.Event(msg))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleEvent(ev client.Event) (tea.Model, tea.Cmd) {
	switch ev.Kind {
	case client.EventConnected:
		m.connected = true

	case client.EventDisconnected:
		m.connected = false

	case client.EventMessage:
		switch ev.Msg.Type {
		case protocol.TypeState:
			if state, err := ev.Msg.StateData(); err == nil {
				m.state = state
			}
		case protocol.TypeResponse, protocol.TypeError:
			if resp, err := ev.Msg.Response(); err == nil {
				m.lastResp = &resp
			}
			if ev.Msg.State != nil {
				m.state = *ev.Msg.State
			}
		}
		m.clampCursor()
	}

	return m, m.waitForEvent()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys.
	switch msg.String() {
	case "ctrl+c":
		m.cancel()
		return m, tea.Quit
	case "tab":
		if m.focus == focusInput {
			m.focus = focusList
			m.input.Blur()
		} else {
			m.focus = focusInput
			m.input.Focus()
		}
		return m, nil
	}

	if m.focus == focusInput {
		return m.handleInputKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		m.input.SetValue("")

		if m.editing != "" {
			payload, _ := json.Marshal(protocol.EditPayload{
				TaskID:  protocol.Token(m.editing),
				NewText: text,
			})
			m.editing = ""
			return m, m.send(protocol.Token(payload), protocol.ActionEditTask)
		}
		return m, m.send(protocol.Token(text), protocol.ActionCreateTask)

	case "esc":
		m.editing = ""
		m.input.SetValue("")
		m.focus = focusList
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.cancel()
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.state.Tasks)-1 {
			m.cursor++
		}

	case "enter":
		if task := m.selected(); task != nil {
			return m, m.send(protocol.Token(task.ID), protocol.ActionSelectTask)
		}
	case "c":
		if task := m.selected(); task != nil {
			return m, m.send(protocol.Token(task.ID), protocol.ActionMarkComplete)
		}
	case "b":
		if task := m.selected(); task != nil {
			return m, m.send(protocol.Token(task.ID), protocol.ActionBreakDown)
		}
	case "d":
		if task := m.selected(); task != nil {
			return m, m.send(protocol.Token(task.ID), protocol.ActionDeleteTask)
		}
	case "e":
		if task := m.selected(); task != nil {
			m.editing = task.ID
			m.input.SetValue(task.Text)
			m.input.CursorEnd()
			m.focus = focusInput
			m.input.Focus()
		}
	case "s":
		return m, m.send("", protocol.ActionGetSuggestion)
	case "r":
		return m, m.send("", protocol.ActionRetry)
	case "x":
		return m, m.send("", protocol.ActionClearAll)
	}

	return m, nil
}

func (m *Model) send(input protocol.Token, action protocol.Action) tea.Cmd {
	req := protocol.Request{Input: input, Action: string(action)}
	return func() tea.Msg {
		if err := m.client.Send(req); err != nil {
			m.log.Debug().Err(err).Str("action", string(action)).Msg("send failed")
		}
		return nil
	}
}

func (m *Model) selected() *domain.Task {
	if m.cursor < 0 || m.cursor >= len(m.state.Tasks) {
		return nil
	}
	return m.state.Tasks[m.cursor]
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.state.Tasks) {
		m.cursor = len(m.state.Tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	statusOKStyle  = lipgloss.NewStyle().Foreground(colorHigh)
	statusBadStyle = lipgloss.NewStyle().Foreground(colorLow)
	dimStyle       = lipgloss.NewStyle().Foreground(colorDim)
	currentStyle   = lipgloss.NewStyle().Bold(true)
	completedStyle = lipgloss.NewStyle().Strikethrough(true).Foreground(colorDim)
	suggestedStyle = lipgloss.NewStyle().Foreground(colorMid)
	errorStyle     = lipgloss.NewStyle().Foreground(colorLow)
)

func (m Model) View() string {
	var b strings.Builder

	status := statusBadStyle.Render("● reconnecting")
	if m.connected {
		status = statusOKStyle.Render("● connected")
	}
	b.WriteString(titleStyle.Render("taskpilot") + "  " + status + "\n\n")

	b.WriteString(m.input.View() + "\n\n")

	b.WriteString("Confidence " + ConfidenceBar(m.state.Confidence, 20) + "\n\n")

	b.WriteString(m.viewResponse())
	b.WriteString(m.viewTasks())

	help := "tab focus · enter select · c complete · b break down · e edit · d delete · s suggest · r retry · x clear · q quit"
	b.WriteString("\n" + dimStyle.Render(help) + "\n")

	return b.String()
}

func (m Model) viewResponse() string {
	if m.lastResp == nil {
		return dimStyle.Render("Ready to help you plan tasks") + "\n\n"
	}

	var b strings.Builder

	text := ResponseText(m.lastResp.Text)
	if m.lastResp.IsError() {
		b.WriteString(errorStyle.Render(text))
	} else {
		b.WriteString(text)
	}
	b.WriteString("  " + dimStyle.Render(CharCounter(m.lastResp.Text)) + "\n")

	if m.lastResp.Reason != "" && ShowReason(m.lastResp.Confidence) {
		b.WriteString(dimStyle.Render(ReasonText(m.lastResp.Reason)) + "\n")
	}

	b.WriteString("\n")
	return b.String()
}

func (m Model) viewTasks() string {
	if len(m.state.Tasks) == 0 {
		return dimStyle.Render("No tasks yet. Type one above and press enter.") + "\n"
	}

	var b strings.Builder
	for i, task := range m.state.Tasks {
		cursor := "  "
		if m.focus == focusList && i == m.cursor {
			cursor = "> "
		}

		marker := "○"
		if task.Completed {
			marker = "✓"
		}

		line := fmt.Sprintf("%s%s %s", cursor, marker, task.Text)
		switch {
		case task.Completed:
			line = completedStyle.Render(line)
		case task.Suggested:
			line = suggestedStyle.Render(line) + dimStyle.Render(" (suggested)")
		case m.state.CurrentTask != nil && m.state.CurrentTask.ID == task.ID:
			line = currentStyle.Render(line)
		}
		b.WriteString(line + "\n")

		for _, st := range task.Subtasks {
			stMarker := "○"
			if st.Completed {
				stMarker = "✓"
			}
			sub := fmt.Sprintf("      %s %s", stMarker, st.Text)
			if st.Completed {
				sub = completedStyle.Render(sub)
			} else {
				sub = dimStyle.Render(sub)
			}
			b.WriteString(sub + "\n")
		}
	}
	return b.String()
}
