// Package repository defines the ticket storage interface and implementations.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/domain"
)

var (
	// ErrDuplicateConversation is returned when a ticket already exists for
	// the conversation.
	ErrDuplicateConversation = errors.New("ticket already exists for conversation")
	// ErrNotFound is returned when an update targets an unknown ticket.
	ErrNotFound = errors.New("ticket not found")
)

// Store defines the interface for ticket persistence. Getters return
// (nil, nil) when no ticket matches.
type Store interface {
	CreateTicket(ctx context.Context, ticket *domain.Ticket) error
	UpdateTicket(ctx context.Context, ticketID string, update domain.TicketUpdate) error
	GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error)
	GetTicketByConversation(ctx context.Context, conversationID string) (*domain.Ticket, error)
	ListTickets(ctx context.Context) ([]domain.Ticket, error)
	DeleteAllTickets(ctx context.Context) (int64, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}

// Open returns a PostgresStore for postgres:// and postgresql:// DSNs and a
// SQLiteStore for anything else.
func Open(ctx context.Context, dsn string) (Store, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return NewPostgresStore(ctx, dsn)
	}
	s, err := NewSQLiteStore(dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	return s, nil
}

const ticketColumns = `ticket_id, conversation_id, passenger_name, passenger_email, passenger_phone,
	flight_number, booking_reference, original_complaint, category, priority, assigned_team,
	status, created_at, updated_at`

// rowScanner is satisfied by *sql.Row, *sql.Rows, pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var t domain.Ticket
	var category, priority, team *string
	if err := row.Scan(
		&t.TicketID, &t.ConversationID, &t.PassengerName, &t.PassengerEmail, &t.PassengerPhone,
		&t.FlightNumber, &t.BookingReference, &t.OriginalComplaint, &category, &priority, &team,
		&t.Status, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.Category = domain.Category(domain.Deref(category))
	t.Priority = domain.Priority(domain.Deref(priority))
	t.AssignedTeam = domain.Deref(team)
	return &t, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
