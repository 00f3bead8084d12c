package intake

import "github.com/GeorgeJbara/prod-comp-assistant/internal/domain"

// NextAction is the routing decision made by the Decide stage.
type NextAction string

const (
	NextAnalyze NextAction = "analyze"
	NextExecute NextAction = "execute"
	NextRespond NextAction = "respond"
	NextEnd     NextAction = "end"
)

// Missing field labels, in the order they are reported.
const (
	FieldName      = "name"
	FieldContact   = "contact information (email or phone)"
	FieldComplaint = "complaint details"
)

// State accumulates the results of one run of the state machine.
type State struct {
	ConversationID string
	Message        string
	// History holds the turns before Message, oldest first.
	History []domain.Turn

	// Classify
	IsComplaint bool
	Confidence  float64

	// Extract
	PassengerInfo     *domain.PassengerInfo
	OriginalComplaint string
	InfoComplete      bool
	Existing          *domain.Ticket

	// Decide
	MissingFields []string
	NextAction    NextAction
	Action        Action

	// Analyze
	Category     domain.Category
	Priority     domain.Priority
	Sentiment    domain.Sentiment
	KeyIssues    []string
	AssignedTeam string

	// Execute
	TicketID     string
	ActionResult domain.MessageStatus

	// Respond
	Response string
}

// Turns returns the history followed by the current message.
func (s *State) Turns() []domain.Turn {
	turns := make([]domain.Turn, 0, len(s.History)+1)
	turns = append(turns, s.History...)
	return append(turns, domain.Turn{Role: domain.RoleUser, Content: s.Message, Complaint: s.IsComplaint})
}

// Status is the status tag of a finished run.
func (s *State) Status() domain.MessageStatus {
	switch {
	case s.ActionResult != "":
		return s.ActionResult
	case len(s.MissingFields) > 0:
		return domain.StatusAwaitingInformation
	default:
		return domain.StatusProcessed
	}
}

// Action is what Decide plans for Execute. Exactly one of CreateTicket,
// UpdateTicket, RequestInfo or Acknowledge.
type Action interface {
	actionKind() string
}

// CreateTicket opens a ticket from the analysed state.
type CreateTicket struct{}

// UpdateTicket applies new details to the conversation's ticket.
type UpdateTicket struct {
	TicketID string
	Update   domain.TicketUpdate
}

// RequestInfo asks the customer for the listed fields.
type RequestInfo struct {
	Fields []string
}

// Acknowledge replies without touching tickets.
type Acknowledge struct{}

func (CreateTicket) actionKind() string { return "create_ticket" }
func (UpdateTicket) actionKind() string { return "update_ticket" }
func (RequestInfo) actionKind() string  { return "request_info" }
func (Acknowledge) actionKind() string  { return "acknowledge" }

// ActionKind names the action for logs. It returns "" for nil.
func ActionKind(a Action) string {
	if a == nil {
		return ""
	}
	return a.actionKind()
}
