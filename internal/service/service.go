// Package service wires the intake engine to conversation memory and the
// ticket store for the transports.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/domain"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/intake"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/memory"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/repository"
)

var (
	// ErrEmptyMessage is returned for a blank inbound message.
	ErrEmptyMessage = errors.New("message is required")
	// ErrTicketNotFound is returned when no ticket has the requested id.
	ErrTicketNotFound = errors.New("ticket not found")
)

type Service struct {
	engine *intake.Engine
	store  repository.Store
	memory *memory.Store
	log    zerolog.Logger
}

func New(engine *intake.Engine, store repository.Store, mem *memory.Store, log zerolog.Logger) *Service {
	return &Service{
		engine: engine,
		store:  store,
		memory: mem,
		log:    log.With().Str("component", "service").Logger(),
	}
}

// NewConversationID returns an id of the form conv_<8 hex>.
func NewConversationID() string {
	return "conv_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// ProcessMessage handles one customer message. The user and assistant turns
// are remembered unless processing failed, so the customer can retry.
func (s *Service) ProcessMessage(ctx context.Context, req domain.MessageRequest) (*domain.MessageResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}
	conversationID := strings.TrimSpace(req.ConversationID)
	if conversationID == "" {
		conversationID = NewConversationID()
	}

	res := s.engine.Process(ctx, intake.Request{
		ConversationID: conversationID,
		Message:        req.Message,
		History:        s.memory.Get(conversationID),
		PriorUserTurns: s.memory.UserTurns(conversationID),
	})

	if res.Status != domain.StatusError {
		s.memory.Append(conversationID,
			domain.Turn{Role: domain.RoleUser, Content: req.Message, Complaint: res.IsComplaint},
			domain.Turn{Role: domain.RoleAssistant, Content: res.Response},
		)
	}

	return &domain.MessageResponse{
		Response:       res.Response,
		Status:         res.Status,
		TicketID:       res.TicketID,
		ConversationID: conversationID,
		MissingFields:  res.MissingFields,
	}, nil
}

// ListTickets lists all tickets, newest first.
func (s *Service) ListTickets(ctx context.Context) (*domain.ListTicketsResponse, error) {
	tickets, err := s.store.ListTickets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return &domain.ListTicketsResponse{Tickets: tickets, Count: len(tickets)}, nil
}

// GetTicket returns the ticket with the given id.
func (s *Service) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.store.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	if ticket == nil {
		return nil, ErrTicketNotFound
	}
	return ticket, nil
}

// ClearTickets deletes every ticket and forgets every conversation.
func (s *Service) ClearTickets(ctx context.Context) (*domain.ClearTicketsResponse, error) {
	deleted, err := s.store.DeleteAllTickets(ctx)
	if err != nil {
		return nil, fmt.Errorf("clear tickets: %w", err)
	}
	conversations := s.memory.Clear()
	s.log.Warn().Int64("tickets", deleted).Int("conversations", conversations).Msg("all tickets cleared")

	return &domain.ClearTicketsResponse{
		Status:               "success",
		Message:              fmt.Sprintf("Cleared %d tickets from database", deleted),
		Deleted:              deleted,
		ConversationsCleared: true,
	}, nil
}

// Turns returns the remembered turns of a conversation, oldest first.
func (s *Service) Turns(conversationID string) []domain.Turn {
	turns := s.memory.Get(conversationID)
	if turns == nil {
		return []domain.Turn{}
	}
	return turns
}

// Workflow returns the intake stage graph as Mermaid text.
func (s *Service) Workflow() string {
	return intake.Mermaid()
}

// Health checks the ticket store.
func (s *Service) Health(ctx context.Context) error {
	return s.store.Ping(ctx)
}
