// Package v1 provides the version 1 HTTP handlers.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/service"
)

const version = "0.1.0"

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/v1/complaints", h.SubmitMessage)
	e.GET("/v1/conversations/:conversation_id/turns", h.GetConversationTurns)

	e.GET("/v1/tickets", h.ListTickets)
	e.GET("/v1/tickets/:ticket_id", h.GetTicket)
	e.DELETE("/v1/tickets", h.ClearTickets)

	e.GET("/v1/workflow", h.GetWorkflow)
	e.GET("/health", h.Health)
}

// Health reports whether the ticket store is reachable.
func (h *Handler) Health(c echo.Context) error {
	if err := h.service.Health(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": version,
	})
}

// GetWorkflow returns the stage graph as Mermaid text.
func (h *Handler) GetWorkflow(c echo.Context) error {
	return c.String(http.StatusOK, h.service.Workflow())
}
