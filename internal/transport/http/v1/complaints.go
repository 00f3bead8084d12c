package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/domain"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/service"
)

// SubmitMessage processes one customer message.
func (h *Handler) SubmitMessage(c echo.Context) error {
	var req domain.MessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	resp, err := h.service.ProcessMessage(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, resp)
}

// GetConversationTurns returns the remembered turns of a conversation.
func (h *Handler) GetConversationTurns(c echo.Context) error {
	conversationID := c.Param("conversation_id")
	turns := h.service.Turns(conversationID)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"conversation_id": conversationID,
		"turns":           turns,
	})
}
