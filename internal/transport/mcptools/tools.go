// Package mcptools exposes the intake service as MCP tools so assistants can
// drive a complaint conversation and look up tickets.
package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/domain"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/service"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Intake is the part of the service the tools call.
type Intake interface {
	ProcessMessage(ctx context.Context, req domain.MessageRequest) (*domain.MessageResponse, error)
	GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error)
	ListTickets(ctx context.Context) (*domain.ListTicketsResponse, error)
	Workflow() string
}

// NewServer creates the MCP server with every intake tool registered.
func NewServer(svc Intake) *server.MCPServer {
	s := server.NewMCPServer(
		"complaint-intake",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	submit := NewSubmitMessageTool(svc)
	s.AddTool(submit.Definition(), submit.Handle)

	get := NewGetTicketTool(svc)
	s.AddTool(get.Definition(), get.Handle)

	list := NewListTicketsTool(svc)
	s.AddTool(list.Definition(), list.Handle)

	workflow := NewWorkflowTool(svc)
	s.AddTool(workflow.Definition(), workflow.Handle)

	return s
}

// SubmitMessageTool handles the submit_message MCP tool.
type SubmitMessageTool struct {
	svc Intake
}

func NewSubmitMessageTool(svc Intake) *SubmitMessageTool {
	return &SubmitMessageTool{svc: svc}
}

// Definition returns the MCP tool definition for submit_message.
func (t *SubmitMessageTool) Definition() mcp.Tool {
	return mcp.NewTool("submit_message",
		mcp.WithDescription(
			"Send one customer message to the complaint assistant. Reuse the returned conversation_id "+
				"for follow-up messages so details collected earlier are kept.",
		),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("The customer's message"),
		),
		mcp.WithString("conversation_id",
			mcp.Description("Conversation to continue (omit to start a new one)"),
		),
	)
}

// Handle processes the submit_message tool call.
func (t *SubmitMessageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message := req.GetString("message", "")
	if message == "" {
		return mcp.NewToolResultError("'message' is required"), nil
	}

	resp, err := t.svc.ProcessMessage(ctx, domain.MessageRequest{
		Message:        message,
		ConversationID: req.GetString("conversation_id", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to process message: %v", err)), nil
	}
	return jsonResult(resp)
}

// GetTicketTool handles the get_ticket MCP tool.
type GetTicketTool struct {
	svc Intake
}

func NewGetTicketTool(svc Intake) *GetTicketTool {
	return &GetTicketTool{svc: svc}
}

// Definition returns the MCP tool definition for get_ticket.
func (t *GetTicketTool) Definition() mcp.Tool {
	return mcp.NewTool("get_ticket",
		mcp.WithDescription("Fetch a complaint ticket by its reference (e.g. TCK-20250101-1A2B3C)."),
		mcp.WithString("ticket_id",
			mcp.Required(),
			mcp.Description("Ticket reference"),
		),
	)
}

// Handle processes the get_ticket tool call.
func (t *GetTicketTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ticketID := req.GetString("ticket_id", "")
	if ticketID == "" {
		return mcp.NewToolResultError("'ticket_id' is required"), nil
	}

	ticket, err := t.svc.GetTicket(ctx, ticketID)
	if errors.Is(err, service.ErrTicketNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("Ticket %s not found", ticketID)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get ticket: %v", err)), nil
	}
	return jsonResult(ticket)
}

// ListTicketsTool handles the list_tickets MCP tool.
type ListTicketsTool struct {
	svc Intake
}

func NewListTicketsTool(svc Intake) *ListTicketsTool {
	return &ListTicketsTool{svc: svc}
}

// Definition returns the MCP tool definition for list_tickets.
func (t *ListTicketsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_tickets",
		mcp.WithDescription("List every complaint ticket, newest first."),
	)
}

// Handle processes the list_tickets tool call.
func (t *ListTicketsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp, err := t.svc.ListTickets(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list tickets: %v", err)), nil
	}
	return jsonResult(resp)
}

// WorkflowTool handles the get_workflow MCP tool.
type WorkflowTool struct {
	svc Intake
}

func NewWorkflowTool(svc Intake) *WorkflowTool {
	return &WorkflowTool{svc: svc}
}

// Definition returns the MCP tool definition for get_workflow.
func (t *WorkflowTool) Definition() mcp.Tool {
	return mcp.NewTool("get_workflow",
		mcp.WithDescription("Return the intake stage graph as a Mermaid flowchart."),
	)
}

// Handle processes the get_workflow tool call.
func (t *WorkflowTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(t.svc.Workflow()), nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
