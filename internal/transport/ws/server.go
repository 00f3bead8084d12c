// Package ws serves the customer chat channel over WebSocket.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/domain"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/service"
)

// MessageProcessor handles one customer message.
type MessageProcessor interface {
	ProcessMessage(ctx context.Context, req domain.MessageRequest) (*domain.MessageResponse, error)
}

// Options configures connection handling.
type Options struct {
	APIKey         string
	PingInterval   time.Duration
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration
	MaxMessageSize int64
	ProcessTimeout time.Duration
}

func (o *Options) setDefaults() {
	if o.PingInterval <= 0 {
		o.PingInterval = 30 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 10 * time.Second
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = 60 * time.Second
	}
	if o.MaxMessageSize <= 0 {
		o.MaxMessageSize = 64 * 1024
	}
	if o.ProcessTimeout <= 0 {
		o.ProcessTimeout = 2 * time.Minute
	}
}

// Server handles WebSocket connections.
type Server struct {
	opts      Options
	hub       *Hub
	processor MessageProcessor
	upgrader  websocket.Upgrader
	log       zerolog.Logger
}

// NewServer creates a new WebSocket server.
func NewServer(opts Options, h *Hub, processor MessageProcessor, log zerolog.Logger) *Server {
	opts.setDefaults()
	return &Server{
		opts:      opts,
		hub:       h,
		processor: processor,
		log:       log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWebSocket handles WebSocket upgrade and connection lifecycle.
func (s *Server) HandleWebSocket(c echo.Context) error {
	ws, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return err
	}

	conn := s.hub.NewConnection(ws)
	ws.SetReadLimit(s.opts.MaxMessageSize)

	go s.writePump(conn)
	go s.readPump(conn)

	return nil
}

func (s *Server) readPump(conn *Connection) {
	defer func() {
		s.hub.Unregister(conn)
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
	conn.Conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
		return nil
	})

	for {
		_, message, err := conn.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.log.Warn().Err(err).Str("connection_id", conn.ID).Msg("websocket read error")
			}
			break
		}

		s.handleMessage(conn, message)
	}
}

func (s *Server) writePump(conn *Connection) {
	ticker := time.NewTicker(s.opts.PingInterval)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				s.log.Warn().Err(err).Str("connection_id", conn.ID).Msg("websocket write failed")
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) handleMessage(conn *Connection, data []byte) {
	var baseMsg BaseMessage
	if err := json.Unmarshal(data, &baseMsg); err != nil {
		s.sendError(conn, "", ErrorCodeInvalidMessage, "invalid JSON message")
		return
	}

	switch baseMsg.Type {
	case TypeHello:
		s.handleHello(conn, data)
	case TypeMessage:
		s.handleChat(conn, data)
	default:
		s.sendError(conn, baseMsg.RequestID, ErrorCodeInvalidMessage, "unknown message type: "+baseMsg.Type)
	}
}

func (s *Server) handleHello(conn *Connection, data []byte) {
	var msg HelloMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(conn, "", ErrorCodeInvalidMessage, "invalid hello message")
		return
	}

	if s.opts.APIKey != "" && msg.APIKey != s.opts.APIKey {
		s.sendError(conn, msg.RequestID, ErrorCodeUnauthorized, "invalid api_key")
		return
	}

	conversationID := strings.TrimSpace(msg.ConversationID)
	if conversationID == "" {
		conversationID = service.NewConversationID()
	}
	s.hub.BindConversation(conn, conversationID)

	ack := HelloAckMessage{
		BaseMessage: BaseMessage{
			Type:           TypeHelloAck,
			Ts:             time.Now().UnixMilli(),
			RequestID:      msg.RequestID,
			ConversationID: conversationID,
		},
	}
	s.hub.SendJSONToConnection(conn, ack)

	s.log.Debug().Str("conversation_id", conversationID).Str("connection_id", conn.ID).Msg("hello handshake completed")
}

func (s *Server) handleChat(conn *Connection, data []byte) {
	var msg ChatMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(conn, "", ErrorCodeInvalidMessage, "invalid message")
		return
	}

	conversationID := conn.ConversationID
	if conversationID == "" {
		s.sendError(conn, msg.RequestID, ErrorCodeConversationRequired, "must send hello first")
		return
	}
	if strings.TrimSpace(msg.Content) == "" {
		s.sendError(conn, msg.RequestID, ErrorCodeInvalidMessage, "content is required")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.ProcessTimeout)
		defer cancel()

		resp, err := s.processor.ProcessMessage(ctx, domain.MessageRequest{
			Message:        msg.Content,
			ConversationID: conversationID,
		})
		if err != nil {
			s.log.Error().Err(err).Str("conversation_id", conversationID).Msg("process message failed")
			s.broadcastError(conversationID, msg.RequestID, ErrorCodeInternalError, err.Error())
			return
		}

		reply := ReplyMessage{
			BaseMessage: BaseMessage{
				Type:           TypeReply,
				Ts:             time.Now().UnixMilli(),
				RequestID:      msg.RequestID,
				ConversationID: resp.ConversationID,
			},
			Response:      resp.Response,
			Status:        string(resp.Status),
			TicketID:      resp.TicketID,
			MissingFields: resp.MissingFields,
		}
		s.hub.BroadcastJSON(conversationID, reply)
	}()
}

func (s *Server) sendError(conn *Connection, requestID, code, message string) {
	errMsg := ErrorMessage{
		BaseMessage: BaseMessage{
			Type:           TypeError,
			Ts:             time.Now().UnixMilli(),
			RequestID:      requestID,
			ConversationID: conn.ConversationID,
		},
		Code:    code,
		Message: message,
	}
	s.hub.SendJSONToConnection(conn, errMsg)
}

func (s *Server) broadcastError(conversationID, requestID, code, message string) {
	errMsg := ErrorMessage{
		BaseMessage: BaseMessage{
			Type:           TypeError,
			Ts:             time.Now().UnixMilli(),
			RequestID:      requestID,
			ConversationID: conversationID,
		},
		Code:    code,
		Message: message,
	}
	s.hub.BroadcastJSON(conversationID, errMsg)
}
