package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/transport/ws"
)

type (
	replyMsg        ws.ReplyMessage
	serverErrorMsg  ws.ErrorMessage
	disconnectedMsg struct{ err error }
	sendFailedMsg   struct{ err error }
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	metaStyle      = lipgloss.NewStyle().Faint(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// model is the chat screen: a scrolling transcript above a single-line
// input.
type model struct {
	conversationID string
	send           func(string) error

	transcript []string
	pending    int
	viewport   viewport.Model
	input      textinput.Model
	width      int
	closed     bool
}

func newModel(conversationID string, send func(string) error) model {
	input := textinput.New()
	input.Placeholder = "Describe your issue, /quit to exit"
	input.Prompt = "> "
	input.CharLimit = 2000
	input.Focus()

	return model{
		conversationID: conversationID,
		send:           send,
		input:          input,
		viewport:       viewport.Model{Width: 80, Height: 20},
		width:          80,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-4, 1)
		m.input.Width = max(msg.Width-4, 10)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if text == "" {
				return m, nil
			}
			if text == "/quit" {
				return m, tea.Quit
			}
			if m.closed {
				m.appendLine(errorStyle.Render("connection closed"))
				return m, nil
			}
			m.appendLine(userStyle.Render("you: ") + text)
			m.pending++
			return m, m.sendCmd(text)
		}

	case replyMsg:
		m.pending = max(m.pending-1, 0)
		m.appendLine(assistantStyle.Render("assistant: ") + msg.Response)
		m.appendLine(metaStyle.Render(replyMeta(ws.ReplyMessage(msg))))
		return m, nil

	case serverErrorMsg:
		m.pending = max(m.pending-1, 0)
		m.appendLine(errorStyle.Render(fmt.Sprintf("error %s: %s", msg.Code, msg.Message)))
		return m, nil

	case sendFailedMsg:
		m.pending = max(m.pending-1, 0)
		m.appendLine(errorStyle.Render("send failed: " + msg.err.Error()))
		return m, nil

	case disconnectedMsg:
		m.closed = true
		m.pending = 0
		m.appendLine(errorStyle.Render("disconnected: " + msg.err.Error()))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	status := "conversation " + m.conversationID
	if m.pending > 0 {
		status += " · waiting for reply"
	}
	return headerStyle.Render(status) + "\n" +
		m.viewport.View() + "\n" +
		m.input.View()
}

func (m model) sendCmd(text string) tea.Cmd {
	send := m.send
	return func() tea.Msg {
		if err := send(text); err != nil {
			return sendFailedMsg{err: err}
		}
		return nil
	}
}

func (m *model) appendLine(line string) {
	m.transcript = append(m.transcript, line)
	m.refresh()
}

func (m *model) refresh() {
	wrapped := lipgloss.NewStyle().Width(max(m.width, 20)).Render(strings.Join(m.transcript, "\n"))
	m.viewport.SetContent(wrapped)
	m.viewport.GotoBottom()
}

func replyMeta(reply ws.ReplyMessage) string {
	meta := []string{"status=" + reply.Status}
	if reply.TicketID != "" {
		meta = append(meta, "ticket="+reply.TicketID)
	}
	if len(reply.MissingFields) > 0 {
		meta = append(meta, "missing="+strings.Join(reply.MissingFields, ", "))
	}
	return "  (" + strings.Join(meta, " ") + ")"
}
