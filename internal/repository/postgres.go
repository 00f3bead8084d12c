package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/domain"
)

const pgUniqueViolation = "23505"

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to PostgreSQL and runs migrations.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	store := &PostgresStore{pool: pool}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

var _ Store = (*PostgresStore)(nil)

func (s *PostgresStore) migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS tickets (
			ticket_id VARCHAR(50) PRIMARY KEY,
			conversation_id VARCHAR(100) NOT NULL UNIQUE,
			passenger_name VARCHAR(255),
			passenger_email VARCHAR(255),
			passenger_phone VARCHAR(50),
			flight_number VARCHAR(20),
			booking_reference VARCHAR(20),
			original_complaint TEXT NOT NULL,
			category VARCHAR(50),
			priority VARCHAR(20),
			assigned_team VARCHAR(100),
			status VARCHAR(20) NOT NULL DEFAULT 'OPEN',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_created ON tickets(created_at)`,
	}
	for _, m := range migrations {
		if _, err := s.pool.Exec(ctx, m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// CreateTicket inserts a ticket.
func (s *PostgresStore) CreateTicket(ctx context.Context, t *domain.Ticket) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
	if t.Status == "" {
		t.Status = domain.TicketStatusOpen
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO tickets (`+ticketColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		t.TicketID, t.ConversationID, t.PassengerName, t.PassengerEmail, t.PassengerPhone,
		t.FlightNumber, t.BookingReference, t.OriginalComplaint,
		nullable(string(t.Category)), nullable(string(t.Priority)), nullable(t.AssignedTeam),
		string(t.Status), t.CreatedAt, t.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && strings.Contains(pgErr.ConstraintName, "conversation_id") {
			return ErrDuplicateConversation
		}
		return err
	}
	return nil
}

// UpdateTicket applies the non-nil fields of update and refreshes updated_at.
func (s *PostgresStore) UpdateTicket(ctx context.Context, ticketID string, update domain.TicketUpdate) error {
	sets, args := updateAssignments(update, func(n int) string { return "$" + strconv.Itoa(n) })
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, ticketID)

	tag, err := s.pool.Exec(ctx,
		`UPDATE tickets SET `+strings.Join(sets, ", ")+` WHERE ticket_id = $`+strconv.Itoa(len(args)), args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetTicket retrieves a ticket by id.
func (s *PostgresStore) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return s.getOne(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE ticket_id = $1`, ticketID)
}

// GetTicketByConversation retrieves the ticket raised from a conversation.
func (s *PostgresStore) GetTicketByConversation(ctx context.Context, conversationID string) (*domain.Ticket, error) {
	return s.getOne(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE conversation_id = $1`, conversationID)
}

func (s *PostgresStore) getOne(ctx context.Context, query string, arg string) (*domain.Ticket, error) {
	t, err := scanTicket(s.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

// ListTickets lists all tickets, newest first.
func (s *PostgresStore) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+ticketColumns+` FROM tickets ORDER BY created_at DESC, ticket_id`)
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
func (s *PostgresStore) DeleteAllTickets(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tickets`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
