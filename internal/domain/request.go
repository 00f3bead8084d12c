package domain

// MessageRequest is an inbound customer message.
type MessageRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// MessageResponse is the reply produced for one inbound message.
type MessageResponse struct {
	Response       string        `json:"response"`
	Status         MessageStatus `json:"status"`
	TicketID       string        `json:"ticket_id,omitempty"`
	ConversationID string        `json:"conversation_id"`
	MissingFields  []string      `json:"missing_fields,omitempty"`
}

// ListTicketsResponse is the response for listing tickets.
type ListTicketsResponse struct {
	Tickets []Ticket `json:"tickets"`
	Count   int      `json:"count"`
}

// ClearTicketsResponse reports the outcome of clearing all tickets.
type ClearTicketsResponse struct {
	Status               string `json:"status"`
	Message              string `json:"message"`
	Deleted              int64  `json:"deleted"`
	ConversationsCleared bool   `json:"conversations_cleared"`
}
