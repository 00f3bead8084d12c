package intake

import (
	"fmt"
	"strings"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/domain"
)

const (
	replyGreeting        = "Thank you for contacting us. How may I assist you today?"
	replyMoreDetail      = "Thank you for your message. Please provide more details about your concern."
	replyStorageFailure  = "I'm sorry, we couldn't save your complaint just now. Please send your message again in a moment."
	replyJudgmentFailure = "I apologize, but I'm having trouble processing your request. Please try again or contact support directly."
)

var responseWindows = map[domain.Priority]string{
	domain.PriorityCritical: "2 hours",
	domain.PriorityHigh:     "6 hours",
	domain.PriorityMedium:   "24 hours",
	domain.PriorityLow:      "72 hours",
}

// respond selects the reply for a finished run. It reads st only.
func respond(st *State) string {
	switch {
	case len(st.MissingFields) > 0:
		return fmt.Sprintf("To process your complaint, I'll need %s. Could you please provide these details?",
			joinFields(st.MissingFields))
	case st.ActionResult.Failed():
		return replyStorageFailure
	case st.TicketID != "":
		return confirmation(st)
	case !st.IsComplaint:
		return replyGreeting
	default:
		return replyMoreDetail
	}
}

// joinFields lists items as "a", "a and b" or "a, b, and c".
func joinFields(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}

func confirmation(st *State) string {
	priority := st.Priority
	if !priority.Valid() {
		priority = domain.PriorityMedium
	}
	category := st.Category
	if category == "" {
		category = domain.CategoryOther
	}
	team := st.AssignedTeam
	if team == "" {
		team = "Customer Service"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", st.PassengerInfo.DisplayName("Valued Customer"))
	if st.ActionResult == domain.StatusTicketUpdated {
		b.WriteString("Thank you for the additional information. Your ticket has been updated.\n\n")
	} else {
		b.WriteString("Thank you for contacting us. Your complaint has been registered.\n\n")
	}
	fmt.Fprintf(&b, "**Ticket Reference:** %s\n", st.TicketID)
	fmt.Fprintf(&b, "**Priority:** %s\n", priority)
	fmt.Fprintf(&b, "**Category:** %s\n", category)
	fmt.Fprintf(&b, "**Assigned to:** %s\n\n", team)
	fmt.Fprintf(&b, "We will respond within %s.\n\n", responseWindows[priority])
	b.WriteString("Best regards,\nCustomer Service Team")
	return b.String()
}
