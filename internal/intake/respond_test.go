package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/domain"
)

func TestJoinFields(t *testing.T) {
	assert.Equal(t, "", joinFields(nil))
	assert.Equal(t, "name", joinFields([]string{"name"}))
	assert.Equal(t, "name and complaint details", joinFields([]string{"name", "complaint details"}))
	assert.Equal(t, "a, b, and c", joinFields([]string{"a", "b", "c"}))
}

func TestRespondPrecedence(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  string
	}{
		{
			name:  "missing fields first",
			state: State{MissingFields: []string{FieldName}, TicketID: "TCK-1", ActionResult: domain.StatusTicketUpdated},
			want:  "To process your complaint, I'll need name. Could you please provide these details?",
		},
		{
			name:  "storage failure",
			state: State{IsComplaint: true, ActionResult: domain.StatusCreationFailed},
			want:  replyStorageFailure,
		},
		{
			name:  "not a complaint",
			state: State{IsComplaint: false},
			want:  replyGreeting,
		},
		{
			name:  "acknowledge",
			state: State{IsComplaint: true},
			want:  replyMoreDetail,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, respond(&tt.state))
		})
	}
}

func TestConfirmation(t *testing.T) {
	st := &State{
		IsComplaint:   true,
		PassengerInfo: &domain.PassengerInfo{Name: domain.StringPtr("Jane Roe")},
		TicketID:      "TCK-20260101-ABC123",
		Priority:      domain.PriorityCritical,
		Category:      domain.CategoryService,
		AssignedTeam:  "Emergency Response",
		ActionResult:  domain.StatusTicketCreated,
	}
	out := respond(st)
	assert.Contains(t, out, "Dear Jane Roe,")
	assert.Contains(t, out, "Your complaint has been registered.")
	assert.Contains(t, out, "**Ticket Reference:** TCK-20260101-ABC123")
	assert.Contains(t, out, "**Priority:** CRITICAL")
	assert.Contains(t, out, "**Category:** SERVICE")
	assert.Contains(t, out, "**Assigned to:** Emergency Response")
	assert.Contains(t, out, "within 2 hours")

	st.PassengerInfo = nil
	st.Priority = ""
	st.AssignedTeam = ""
	out = respond(st)
	assert.Contains(t, out, "Dear Valued Customer,")
	assert.Contains(t, out, "**Priority:** MEDIUM")
	assert.Contains(t, out, "**Assigned to:** Customer Service")
	assert.Contains(t, out, "within 24 hours")
}

func TestStatus(t *testing.T) {
	assert.Equal(t, domain.StatusProcessed, (&State{}).Status())
	assert.Equal(t, domain.StatusAwaitingInformation, (&State{MissingFields: []string{FieldName}}).Status())
	assert.Equal(t, domain.StatusTicketUpdated, (&State{MissingFields: []string{FieldName}, ActionResult: domain.StatusTicketUpdated}).Status())
}
