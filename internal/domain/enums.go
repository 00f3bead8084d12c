// Package domain defines the core domain models for the intake service.
package domain

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Priority is the severity assigned to a complaint. Values are totally
// ordered by Rank.
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// Rank returns the severity order of the priority, 0 for unknown values.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityCritical:
		return 4
	}
	return 0
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool { return p.Rank() > 0 }

// Category classifies what a complaint is about.
type Category string

const (
	CategoryDelay        Category = "DELAY"
	CategoryCancellation Category = "CANCELLATION"
	CategoryBaggage      Category = "BAGGAGE"
	CategoryService      Category = "SERVICE"
	CategoryRefund       Category = "REFUND"
	CategoryOther        Category = "OTHER"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryDelay, CategoryCancellation, CategoryBaggage, CategoryService, CategoryRefund, CategoryOther:
		return true
	}
	return false
}

// Sentiment is the tone detected in a complaint.
type Sentiment string

const (
	SentimentPositive     Sentiment = "POSITIVE"
	SentimentNeutral      Sentiment = "NEUTRAL"
	SentimentNegative     Sentiment = "NEGATIVE"
	SentimentVeryNegative Sentiment = "VERY_NEGATIVE"
)

// Valid reports whether s is one of the known sentiments.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative, SentimentVeryNegative:
		return true
	}
	return false
}

// TicketStatus represents the lifecycle status of a ticket.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// MessageStatus is the status tag returned for every processed message.
type MessageStatus string

const (
	// Fast-path outcomes
	StatusAcknowledged      MessageStatus = "acknowledged"
	StatusAwaitingComplaint MessageStatus = "awaiting_complaint"
	StatusDuplicateMessage  MessageStatus = "duplicate_message"
	StatusTicketExists      MessageStatus = "ticket_exists"

	// Execute outcomes
	StatusTicketCreated  MessageStatus = "ticket_created"
	StatusCreationFailed MessageStatus = "creation_failed"
	StatusTicketUpdated  MessageStatus = "ticket_updated"
	StatusUpdateFailed   MessageStatus = "update_failed"

	// Other state machine outcomes
	StatusAwaitingInformation MessageStatus = "awaiting_information"
	StatusProcessed           MessageStatus = "processed"
	StatusError               MessageStatus = "error"
)

// Failed reports whether the status records a storage failure.
func (s MessageStatus) Failed() bool {
	return s == StatusCreationFailed || s == StatusUpdateFailed
}
