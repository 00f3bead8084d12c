package intake

import (
	"strings"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/domain"
)

// decide computes the missing fields and plans the action. It performs no
// I/O. An existing ticket wins over missing fields so that new details still
// reach it.
func decide(st *State) {
	st.MissingFields = missingFields(st)

	switch {
	case st.Existing != nil:
		st.NextAction = NextExecute
		st.Action = UpdateTicket{TicketID: st.Existing.TicketID, Update: ticketUpdate(st.Existing, st)}
	case len(st.MissingFields) > 0:
		st.NextAction = NextRespond
		st.Action = RequestInfo{Fields: st.MissingFields}
	case st.InfoComplete:
		st.NextAction = NextAnalyze
		st.Action = CreateTicket{}
	default:
		st.NextAction = NextRespond
		st.Action = Acknowledge{}
	}
}

func missingFields(st *State) []string {
	var missing []string
	if !st.PassengerInfo.HasName() {
		missing = append(missing, FieldName)
	}
	if !st.PassengerInfo.HasContact() {
		missing = append(missing, FieldContact)
	}
	if strings.TrimSpace(st.OriginalComplaint) == "" {
		missing = append(missing, FieldComplaint)
	}
	return missing
}

// ticketUpdate keeps the updatable fields that are known and differ from
// what the ticket already stores.
func ticketUpdate(ticket *domain.Ticket, st *State) domain.TicketUpdate {
	var u domain.TicketUpdate
	if info := st.PassengerInfo; info != nil {
		u.PassengerEmail = changed(ticket.PassengerEmail, info.Email)
		u.PassengerPhone = changed(ticket.PassengerPhone, info.Phone)
	}
	if c := strings.TrimSpace(st.OriginalComplaint); c != "" && c != ticket.OriginalComplaint {
		u.OriginalComplaint = &c
	}
	return u
}

func changed(current, next *string) *string {
	if next == nil || strings.TrimSpace(*next) == "" {
		return nil
	}
	if current != nil && *current == *next {
		return nil
	}
	v := *next
	return &v
}
