package repository

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/domain"
)

// Runs against a real database only when INTAKE_TEST_POSTGRES_URL is set.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("INTAKE_TEST_POSTGRES_URL")
	if dsn == "" {
		t.Skip("INTAKE_TEST_POSTGRES_URL not set")
	}
	ctx := context.Background()

	store, err := NewPostgresStore(ctx, dsn)
	require.NoError(t, err)
	defer store.Close()
	_, err = store.DeleteAllTickets(ctx)
	require.NoError(t, err)

	require.NoError(t, store.CreateTicket(ctx, sampleTicket("TCK-PG-1", "conv_pg")))
	assert.ErrorIs(t, store.CreateTicket(ctx, sampleTicket("TCK-PG-2", "conv_pg")), ErrDuplicateConversation)

	require.NoError(t, store.UpdateTicket(ctx, "TCK-PG-1", domain.TicketUpdate{PassengerPhone: domain.StringPtr("555-0100")}))
	got, err := store.GetTicketByConversation(ctx, "conv_pg")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "555-0100", domain.Deref(got.PassengerPhone))

	assert.ErrorIs(t, store.UpdateTicket(ctx, "missing", domain.TicketUpdate{PassengerPhone: domain.StringPtr("1")}), ErrNotFound)

	deleted, err := store.DeleteAllTickets(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)
}
