package main

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/transport/ws"
)

func typeText(m tea.Model, text string) tea.Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func TestEnterSendsMessage(t *testing.T) {
	var sent []string
	var m tea.Model = newModel("conv_1", func(s string) error {
		sent = append(sent, s)
		return nil
	})

	m = typeText(m, "my bag is lost")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a send command")
	}
	if msg := cmd(); msg != nil {
		t.Fatalf("unexpected message from send: %#v", msg)
	}

	if len(sent) != 1 || sent[0] != "my bag is lost" {
		t.Fatalf("sent = %v", sent)
	}
	got := m.(model)
	if got.pending != 1 {
		t.Errorf("pending = %d, want 1", got.pending)
	}
	if got.input.Value() != "" {
		t.Errorf("input not reset: %q", got.input.Value())
	}
}

func TestBlankInputIgnored(t *testing.T) {
	var m tea.Model = newModel("conv_1", func(string) error {
		t.Fatal("send should not be called")
		return nil
	})

	m = typeText(m, "   ")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("expected no command for blank input")
	}
}

func TestReplyRendered(t *testing.T) {
	var m tea.Model = newModel("conv_1", func(string) error { return nil })
	m = typeText(m, "hi")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	m, _ = m.Update(replyMsg(ws.ReplyMessage{
		Response: "Thank you for contacting us.",
		Status:   "ticket_created",
		TicketID: "TCK-20250101-ABCDEF",
	}))

	got := m.(model)
	if got.pending != 0 {
		t.Errorf("pending = %d, want 0", got.pending)
	}
	joined := strings.Join(got.transcript, "\n")
	for _, want := range []string{"Thank you for contacting us.", "ticket=TCK-20250101-ABCDEF", "status=ticket_created"} {
		if !strings.Contains(joined, want) {
			t.Errorf("transcript missing %q:\n%s", want, joined)
		}
	}
}

func TestSendFailure(t *testing.T) {
	var m tea.Model = newModel("conv_1", func(string) error { return errors.New("broken pipe") })
	m = typeText(m, "hello")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	m, _ = m.Update(cmd())
	got := m.(model)
	if got.pending != 0 {
		t.Errorf("pending = %d, want 0", got.pending)
	}
	if !strings.Contains(got.transcript[len(got.transcript)-1], "broken pipe") {
		t.Errorf("last line = %q", got.transcript[len(got.transcript)-1])
	}
}

func TestQuitCommand(t *testing.T) {
	var m tea.Model = newModel("conv_1", func(string) error { return nil })
	m = typeText(m, "/quit")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}

func TestReplyMeta(t *testing.T) {
	got := replyMeta(ws.ReplyMessage{Status: "awaiting_information", MissingFields: []string{"name", "complaint details"}})
	if got != "  (status=awaiting_information missing=name, complaint details)" {
		t.Errorf("replyMeta = %q", got)
	}
}
