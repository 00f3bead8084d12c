package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/domain"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/service"
)

type fakeIntake struct {
	requests []domain.MessageRequest
	tickets  map[string]*domain.Ticket
	err      error
}

func (f *fakeIntake) ProcessMessage(ctx context.Context, req domain.MessageRequest) (*domain.MessageResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	conv := req.ConversationID
	if conv == "" {
		conv = "conv_new"
	}
	return &domain.MessageResponse{Response: "noted", Status: domain.StatusProcessed, ConversationID: conv}, nil
}

func (f *fakeIntake) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	if f.err != nil {
		return nil, f.err
	}
	if t, ok := f.tickets[ticketID]; ok {
		return t, nil
	}
	return nil, service.ErrTicketNotFound
}

func (f *fakeIntake) ListTickets(ctx context.Context) (*domain.ListTicketsResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	resp := &domain.ListTicketsResponse{Tickets: []domain.Ticket{}}
	for _, t := range f.tickets {
		resp.Tickets = append(resp.Tickets, *t)
	}
	resp.Count = len(resp.Tickets)
	return resp, nil
}

func (f *fakeIntake) Workflow() string { return "graph TD\n    START --> CLASSIFY\n" }

func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestSubmitMessageTool_Definition(t *testing.T) {
	def := NewSubmitMessageTool(&fakeIntake{}).Definition()

	if def.Name != "submit_message" {
		t.Errorf("tool name = %q, want %q", def.Name, "submit_message")
	}
	if _, ok := def.InputSchema.Properties["conversation_id"]; !ok {
		t.Error("missing 'conversation_id' parameter")
	}
	if len(def.InputSchema.Required) != 1 || def.InputSchema.Required[0] != "message" {
		t.Errorf("required = %v, want [message]", def.InputSchema.Required)
	}
}

func TestSubmitMessageTool_Handle(t *testing.T) {
	svc := &fakeIntake{}
	tool := NewSubmitMessageTool(svc)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"message":         "my flight was cancelled",
		"conversation_id": "conv_1",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(result))
	}

	var resp domain.MessageResponse
	if err := json.Unmarshal([]byte(resultText(result)), &resp); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if resp.ConversationID != "conv_1" || resp.Status != domain.StatusProcessed {
		t.Errorf("unexpected response: %+v", resp)
	}
	if len(svc.requests) != 1 || svc.requests[0].Message != "my flight was cancelled" {
		t.Errorf("unexpected requests: %+v", svc.requests)
	}
}

func TestSubmitMessageTool_MissingMessage(t *testing.T) {
	result, err := NewSubmitMessageTool(&fakeIntake{}).Handle(context.Background(), makeReq(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error for missing message")
	}
}

func TestSubmitMessageTool_ServiceError(t *testing.T) {
	tool := NewSubmitMessageTool(&fakeIntake{err: errors.New("boom")})

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{"message": "hi"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError || !strings.Contains(resultText(result), "boom") {
		t.Errorf("expected tool error mentioning boom, got %q", resultText(result))
	}
}

func TestGetTicketTool_Handle(t *testing.T) {
	svc := &fakeIntake{tickets: map[string]*domain.Ticket{
		"TCK-1": {TicketID: "TCK-1", ConversationID: "conv_1", Status: domain.TicketStatusOpen},
	}}
	tool := NewGetTicketTool(svc)

	result, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{"ticket_id": "TCK-1"}))
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(result))
	}
	if !strings.Contains(resultText(result), `"conversation_id": "conv_1"`) {
		t.Errorf("unexpected result: %s", resultText(result))
	}

	result, _ = tool.Handle(context.Background(), makeReq(map[string]interface{}{"ticket_id": "TCK-2"}))
	if !result.IsError || resultText(result) != "Ticket TCK-2 not found" {
		t.Errorf("expected not found error, got %q", resultText(result))
	}
}

func TestListTicketsTool_Handle(t *testing.T) {
	svc := &fakeIntake{tickets: map[string]*domain.Ticket{}}
	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("TCK-%d", i)
		svc.tickets[id] = &domain.Ticket{TicketID: id}
	}

	result, _ := NewListTicketsTool(svc).Handle(context.Background(), makeReq(nil))

	var resp domain.ListTicketsResponse
	if err := json.Unmarshal([]byte(resultText(result)), &resp); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if resp.Count != 3 {
		t.Errorf("count = %d, want 3", resp.Count)
	}
}

func TestWorkflowTool_Handle(t *testing.T) {
	result, _ := NewWorkflowTool(&fakeIntake{}).Handle(context.Background(), makeReq(nil))
	if !strings.HasPrefix(resultText(result), "graph TD") {
		t.Errorf("unexpected workflow: %q", resultText(result))
	}
}

func TestNewServerRegistersTools(t *testing.T) {
	s := NewServer(&fakeIntake{})
	tools := s.ListTools()
	for _, name := range []string{"submit_message", "get_ticket", "list_tickets", "get_workflow"} {
		if _, ok := tools[name]; !ok {
			t.Errorf("tool %q not registered", name)
		}
	}
}
