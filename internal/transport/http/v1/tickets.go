package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/service"
)

// ListTickets lists all tickets, newest first.
func (h *Handler) ListTickets(c echo.Context) error {
	resp, err := h.service.ListTickets(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, resp)
}

// GetTicket returns one ticket by id.
func (h *Handler) GetTicket(c echo.Context) error {
	ticketID := c.Param("ticket_id")

	ticket, err := h.service.GetTicket(c.Request().Context(), ticketID)
	if err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": fmt.Sprintf("Ticket %s not found", ticketID),
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"ticket": ticket})
}

// ClearTickets deletes every ticket and all conversation memory.
func (h *Handler) ClearTickets(c echo.Context) error {
	resp, err := h.service.ClearTickets(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, resp)
}
