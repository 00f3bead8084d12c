package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	store := &SQLiteStore{db: db, now: func() time.Time { return time.Now().UTC() }}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

var _ Store = (*SQLiteStore)(nil)

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS tickets (
			ticket_id TEXT PRIMARY KEY,
			conversation_id TEXT NOT NULL UNIQUE,
			passenger_name TEXT,
			passenger_email TEXT,
			passenger_phone TEXT,
			flight_number TEXT,
			booking_reference TEXT,
			original_complaint TEXT NOT NULL,
			category TEXT,
			priority TEXT,
			assigned_team TEXT,
			status TEXT NOT NULL DEFAULT 'OPEN',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_created ON tickets(created_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateTicket inserts a ticket. A second ticket for the same conversation
// fails with ErrDuplicateConversation.
func (s *SQLiteStore) CreateTicket(ctx context.Context, t *domain.Ticket) error {
	now := s.now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
	if t.Status == "" {
		t.Status = domain.TicketStatusOpen
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tickets (`+ticketColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TicketID, t.ConversationID, t.PassengerName, t.PassengerEmail, t.PassengerPhone,
		t.FlightNumber, t.BookingReference, t.OriginalComplaint,
		nullable(string(t.Category)), nullable(string(t.Priority)), nullable(t.AssignedTeam),
		string(t.Status), t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: tickets.conversation_id") {
			return ErrDuplicateConversation
		}
		return err
	}
	return nil
}

// UpdateTicket applies the non-nil fields of update and refreshes updated_at.
func (s *SQLiteStore) UpdateTicket(ctx context.Context, ticketID string, update domain.TicketUpdate) error {
	sets, args := updateAssignments(update, func(int) string { return "?" })
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, s.now(), ticketID)

	res, err := s.db.ExecContext(ctx,
		`UPDATE tickets SET `+strings.Join(sets, ", ")+` WHERE ticket_id = ?`, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetTicket retrieves a ticket by id.
func (s *SQLiteStore) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	t, err := scanTicket(s.db.QueryRowContext(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE ticket_id = ?`, ticketID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

// GetTicketByConversation retrieves the ticket raised from a conversation.
func (s *SQLiteStore) GetTicketByConversation(ctx context.Context, conversationID string) (*domain.Ticket, error) {
	t, err := scanTicket(s.db.QueryRowContext(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE conversation_id = ?`, conversationID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

// ListTickets lists all tickets, newest first.
func (s *SQLiteStore) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+ticketColumns+` FROM tickets ORDER BY created_at DESC, ticket_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := []domain.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}
	return tickets, rows.Err()
}

// DeleteAllTickets removes every ticket and returns how many were deleted.
func (s *SQLiteStore) DeleteAllTickets(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tickets`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// updateAssignments builds the SET list for the non-nil fields of update.
// placeholder renders the n-th (1-based) bind parameter.
func updateAssignments(update domain.TicketUpdate, placeholder func(n int) string) ([]string, []any) {
	var sets []string
	var args []any
	add := func(column string, v *string) {
		if v == nil {
			return
		}
		args = append(args, *v)
		sets = append(sets, column+" = "+placeholder(len(args)))
	}
	add("passenger_email", update.PassengerEmail)
	add("passenger_phone", update.PassengerPhone)
	add("original_complaint", update.OriginalComplaint)
	return sets, args
}
