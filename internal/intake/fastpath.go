package intake

import (
	"context"
	"fmt"
	"strings"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/domain"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/repository"
)

// DefaultOpenTicketTurnLimit is the number of prior user turns an open ticket
// tolerates before further messages are deflected.
const DefaultOpenTicketTurnLimit = 10

var trivialMessages = map[string]struct{}{
	"ok": {}, "okay": {}, "thanks": {}, "thank you": {}, "yes": {}, "no": {},
	"sure": {}, "got it": {}, "understood": {}, "alright": {}, "fine": {},
	"good": {}, "great": {},
}

const (
	replyAwaitingComplaint = "How can I help you with your flight complaint today?"
	replyDuplicate         = "I've already received this message. Is there anything else you'd like to add?"
)

// Verdict is the outcome of the fast-path gate. Handled is false when the
// message must go through the state machine.
type Verdict struct {
	Handled  bool
	Response string
	Status   domain.MessageStatus
	TicketID string
}

// Gate short-circuits messages that carry no new information. It never
// calls the judge and looks the ticket up at most once.
type Gate struct {
	OpenTicketTurnLimit int
}

// Check applies the gate rules in order: trivial acknowledgement, repeated
// message, open ticket past the turn limit. priorUserTurns is the number of
// user turns the conversation has seen, which may exceed what history still
// holds.
func (g Gate) Check(ctx context.Context, message string, history []domain.Turn, priorUserTurns int, tickets *TicketLookup) (Verdict, error) {
	normalized := normalize(message)

	if _, ok := trivialMessages[normalized]; ok {
		ticket, err := tickets.Get(ctx)
		if err != nil {
			return Verdict{}, err
		}
		if ticket != nil {
			return Verdict{
				Handled:  true,
				Response: fmt.Sprintf("Thank you. Your ticket %s is being processed.", ticket.TicketID),
				Status:   domain.StatusAcknowledged,
				TicketID: ticket.TicketID,
			}, nil
		}
		return Verdict{Handled: true, Response: replyAwaitingComplaint, Status: domain.StatusAwaitingComplaint}, nil
	}

	if last, ok := domain.LastUserTurn(history); ok && normalize(last.Content) == normalized {
		return Verdict{Handled: true, Response: replyDuplicate, Status: domain.StatusDuplicateMessage}, nil
	}

	if priorUserTurns > g.OpenTicketTurnLimit {
		ticket, err := tickets.Get(ctx)
		if err != nil {
			return Verdict{}, err
		}
		if ticket != nil && ticket.Open() {
			return Verdict{
				Handled: true,
				Response: fmt.Sprintf("Your ticket %s is already being processed. "+
					"For urgent updates, please call our support line directly.", ticket.TicketID),
				Status:   domain.StatusTicketExists,
				TicketID: ticket.TicketID,
			}, nil
		}
	}

	return Verdict{}, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// TicketLookup loads the conversation's ticket once and remembers the
// answer for the rest of the run.
type TicketLookup struct {
	store          repository.Store
	conversationID string

	done   bool
	ticket *domain.Ticket
	err    error
}

// NewTicketLookup creates a lookup of the ticket raised from conversationID.
func NewTicketLookup(store repository.Store, conversationID string) *TicketLookup {
	return &TicketLookup{store: store, conversationID: conversationID}
}

// Get returns the ticket, or nil when the conversation has none.
func (l *TicketLookup) Get(ctx context.Context) (*domain.Ticket, error) {
	if !l.done {
		l.ticket, l.err = l.store.GetTicketByConversation(ctx, l.conversationID)
		if l.err != nil {
			l.err = fmt.Errorf("lookup ticket for conversation %s: %w", l.conversationID, l.err)
		}
		l.done = true
	}
	return l.ticket, l.err
}
