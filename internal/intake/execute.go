package intake

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/domain"
)

// execute performs the planned action. Storage failures are recorded in
// ActionResult and do not abort the run.
func (e *Engine) execute(ctx context.Context, st *State) {
	switch a := st.Action.(type) {
	case CreateTicket:
		e.createTicket(ctx, st)
	case UpdateTicket:
		e.updateTicket(ctx, st, a)
	case RequestInfo, Acknowledge:
		// Nothing to store.
	}
}

func (e *Engine) createTicket(ctx context.Context, st *State) {
	now := e.now().UTC()
	info := st.PassengerInfo
	if info == nil {
		info = &domain.PassengerInfo{}
	}
	ticket := &domain.Ticket{
		TicketID:          e.newTicketID(now),
		ConversationID:    st.ConversationID,
		PassengerName:     info.Name,
		PassengerEmail:    info.Email,
		PassengerPhone:    info.Phone,
		FlightNumber:      info.FlightNumber,
		BookingReference:  info.BookingReference,
		OriginalComplaint: st.OriginalComplaint,
		Category:          st.Category,
		Priority:          st.Priority,
		AssignedTeam:      st.AssignedTeam,
		Status:            domain.TicketStatusOpen,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := e.store.CreateTicket(ctx, ticket); err != nil {
		e.log.Error().Err(err).
			Str("conversation_id", st.ConversationID).
			Str("ticket_id", ticket.TicketID).
			Msg("ticket creation failed")
		e.metrics.RecordTicketOperation("create", false)
		st.ActionResult = domain.StatusCreationFailed
		return
	}
	e.metrics.RecordTicketOperation("create", true)
	st.TicketID = ticket.TicketID
	st.ActionResult = domain.StatusTicketCreated

	e.log.Info().
		Str("conversation_id", st.ConversationID).
		Str("ticket_id", ticket.TicketID).
		Str("priority", string(ticket.Priority)).
		Str("assigned_team", ticket.AssignedTeam).
		Msg("ticket created")

	e.publish(ctx, domain.TicketEvent{
		Type:           domain.TicketEventCreated,
		TicketID:       ticket.TicketID,
		ConversationID: ticket.ConversationID,
		Priority:       ticket.Priority,
		Category:       ticket.Category,
		AssignedTeam:   ticket.AssignedTeam,
		Ts:             now.UnixMilli(),
	})
}

func (e *Engine) updateTicket(ctx context.Context, st *State, a UpdateTicket) {
	st.TicketID = a.TicketID
	if a.Update.Empty() {
		st.ActionResult = domain.StatusTicketUpdated
		return
	}

	if err := e.store.UpdateTicket(ctx, a.TicketID, a.Update); err != nil {
		e.log.Error().Err(err).
			Str("conversation_id", st.ConversationID).
			Str("ticket_id", a.TicketID).
			Msg("ticket update failed")
		e.metrics.RecordTicketOperation("update", false)
		st.ActionResult = domain.StatusUpdateFailed
		return
	}
	e.metrics.RecordTicketOperation("update", true)
	st.ActionResult = domain.StatusTicketUpdated

	update := a.Update
	e.publish(ctx, domain.TicketEvent{
		Type:           domain.TicketEventUpdated,
		TicketID:       a.TicketID,
		ConversationID: st.ConversationID,
		Priority:       st.Priority,
		Category:       st.Category,
		AssignedTeam:   st.AssignedTeam,
		Update:         &update,
		Ts:             e.now().UnixMilli(),
	})
}

func (e *Engine) publish(ctx context.Context, event domain.TicketEvent) {
	if err := e.publisher.Publish(ctx, event); err != nil {
		e.metrics.FeedPublishErrors.Inc()
		e.log.Warn().Err(err).
			Str("ticket_id", event.TicketID).
			Str("event_type", string(event.Type)).
			Msg("ticket event not published")
	}
}

// NewTicketID returns an id of the form TCK-<YYYYMMDD>-<6 upper-case hex>
// for the UTC date of now.
func NewTicketID(now time.Time) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("TCK-%s-%s", now.UTC().Format("20060102"), strings.ToUpper(hex[:6]))
}
