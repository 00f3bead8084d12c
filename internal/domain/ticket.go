package domain

import "time"

// Ticket is a support ticket raised from a conversation. At most one ticket
// exists per conversation.
type Ticket struct {
	TicketID          string       `json:"ticket_id"`
	ConversationID    string       `json:"conversation_id"`
	PassengerName     *string      `json:"passenger_name,omitempty"`
	PassengerEmail    *string      `json:"passenger_email,omitempty"`
	PassengerPhone    *string      `json:"passenger_phone,omitempty"`
	FlightNumber      *string      `json:"flight_number,omitempty"`
	BookingReference  *string      `json:"booking_reference,omitempty"`
	OriginalComplaint string       `json:"original_complaint"`
	Category          Category     `json:"category,omitempty"`
	Priority          Priority     `json:"priority,omitempty"`
	AssignedTeam      string       `json:"assigned_team,omitempty"`
	Status            TicketStatus `json:"status"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// PassengerInfo returns the passenger fields of the ticket.
func (t *Ticket) PassengerInfo() *PassengerInfo {
	return &PassengerInfo{
		Name:             t.PassengerName,
		Email:            t.PassengerEmail,
		Phone:            t.PassengerPhone,
		FlightNumber:     t.FlightNumber,
		BookingReference: t.BookingReference,
	}
}

// Open reports whether the ticket is still being worked on.
func (t *Ticket) Open() bool {
	return t.Status == TicketStatusOpen || t.Status == TicketStatusInProgress
}

// TicketUpdate lists the mutable ticket fields. Nil fields are left as they
// are; identity fields (ticket id, conversation id, created_at) cannot be
// updated.
type TicketUpdate struct {
	PassengerEmail    *string `json:"passenger_email,omitempty"`
	PassengerPhone    *string `json:"passenger_phone,omitempty"`
	OriginalComplaint *string `json:"original_complaint,omitempty"`
}

// Empty reports whether the update carries no field.
func (u TicketUpdate) Empty() bool {
	return u.PassengerEmail == nil && u.PassengerPhone == nil && u.OriginalComplaint == nil
}

// TicketEventType names a change published on the ticket feed.
type TicketEventType string

const (
	TicketEventCreated TicketEventType = "ticket_created"
	TicketEventUpdated TicketEventType = "ticket_updated"
)

// TicketEvent is published after a ticket change has been committed.
type TicketEvent struct {
	Type           TicketEventType `json:"type"`
	TicketID       string          `json:"ticket_id"`
	ConversationID string          `json:"conversation_id"`
	Priority       Priority        `json:"priority,omitempty"`
	Category       Category        `json:"category,omitempty"`
	AssignedTeam   string          `json:"assigned_team,omitempty"`
	Update         *TicketUpdate   `json:"update,omitempty"`
	Ts             int64           `json:"ts"` // Unix milliseconds
}
