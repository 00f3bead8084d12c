package ws

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/domain"
)

type fakeProcessor struct {
	mu       sync.Mutex
	requests []domain.MessageRequest
	err      error
}

func (f *fakeProcessor) ProcessMessage(ctx context.Context, req domain.MessageRequest) (*domain.MessageResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &domain.MessageResponse{
		Response:       "echo: " + req.Message,
		Status:         domain.StatusAcknowledged,
		ConversationID: req.ConversationID,
	}, nil
}

func startServer(t *testing.T, opts Options, p MessageProcessor) string {
	t.Helper()
	e := echo.New()
	srv := NewServer(opts, NewHub(), p, zerolog.Nop())
	e.GET("/ws", srv.HandleWebSocket)
	ts := httptest.NewServer(e)
	t.Cleanup(ts.Close)
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readJSON[T any](t *testing.T, conn *websocket.Conn) T {
	t.Helper()
	var v T
	require.NoError(t, conn.ReadJSON(&v))
	return v
}

func TestHelloAssignsConversation(t *testing.T) {
	conn := dial(t, startServer(t, Options{}, &fakeProcessor{}))

	require.NoError(t, conn.WriteJSON(HelloMessage{BaseMessage: BaseMessage{Type: TypeHello, RequestID: "r1"}}))
	ack := readJSON[HelloAckMessage](t, conn)

	assert.Equal(t, TypeHelloAck, ack.Type)
	assert.Equal(t, "r1", ack.RequestID)
	assert.True(t, strings.HasPrefix(ack.ConversationID, "conv_"))
}

func TestHelloKeepsRequestedConversation(t *testing.T) {
	conn := dial(t, startServer(t, Options{}, &fakeProcessor{}))

	require.NoError(t, conn.WriteJSON(HelloMessage{BaseMessage: BaseMessage{Type: TypeHello, ConversationID: "conv_abc"}}))
	ack := readJSON[HelloAckMessage](t, conn)

	assert.Equal(t, "conv_abc", ack.ConversationID)
}

func TestHelloRejectsBadAPIKey(t *testing.T) {
	conn := dial(t, startServer(t, Options{APIKey: "secret"}, &fakeProcessor{}))

	require.NoError(t, conn.WriteJSON(HelloMessage{BaseMessage: BaseMessage{Type: TypeHello}, APIKey: "wrong"}))
	msg := readJSON[ErrorMessage](t, conn)

	assert.Equal(t, TypeError, msg.Type)
	assert.Equal(t, ErrorCodeUnauthorized, msg.Code)
}

func TestMessageBeforeHello(t *testing.T) {
	conn := dial(t, startServer(t, Options{}, &fakeProcessor{}))

	require.NoError(t, conn.WriteJSON(ChatMessage{BaseMessage: BaseMessage{Type: TypeMessage}, Content: "hi"}))
	msg := readJSON[ErrorMessage](t, conn)

	assert.Equal(t, ErrorCodeConversationRequired, msg.Code)
}

func TestInvalidJSON(t *testing.T) {
	conn := dial(t, startServer(t, Options{}, &fakeProcessor{}))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	msg := readJSON[ErrorMessage](t, conn)

	assert.Equal(t, ErrorCodeInvalidMessage, msg.Code)
}

func TestUnknownType(t *testing.T) {
	conn := dial(t, startServer(t, Options{}, &fakeProcessor{}))

	require.NoError(t, conn.WriteJSON(BaseMessage{Type: "bogus"}))
	msg := readJSON[ErrorMessage](t, conn)

	assert.Equal(t, ErrorCodeInvalidMessage, msg.Code)
	assert.Contains(t, msg.Message, "bogus")
}

func TestMessageReply(t *testing.T) {
	p := &fakeProcessor{}
	conn := dial(t, startServer(t, Options{}, p))

	require.NoError(t, conn.WriteJSON(HelloMessage{BaseMessage: BaseMessage{Type: TypeHello, ConversationID: "conv_1"}}))
	readJSON[HelloAckMessage](t, conn)

	require.NoError(t, conn.WriteJSON(ChatMessage{BaseMessage: BaseMessage{Type: TypeMessage, RequestID: "m1"}, Content: "my bag is lost"}))
	reply := readJSON[ReplyMessage](t, conn)

	assert.Equal(t, TypeReply, reply.Type)
	assert.Equal(t, "m1", reply.RequestID)
	assert.Equal(t, "conv_1", reply.ConversationID)
	assert.Equal(t, "echo: my bag is lost", reply.Response)
	assert.Equal(t, string(domain.StatusAcknowledged), reply.Status)

	p.mu.Lock()
	defer p.mu.Unlock()
	require.Len(t, p.requests, 1)
	assert.Equal(t, "conv_1", p.requests[0].ConversationID)
}

func TestReplyFansOutToConversation(t *testing.T) {
	url := startServer(t, Options{}, &fakeProcessor{})
	first := dial(t, url)
	second := dial(t, url)

	for _, c := range []*websocket.Conn{first, second} {
		require.NoError(t, c.WriteJSON(HelloMessage{BaseMessage: BaseMessage{Type: TypeHello, ConversationID: "conv_shared"}}))
		readJSON[HelloAckMessage](t, c)
	}

	require.NoError(t, first.WriteJSON(ChatMessage{BaseMessage: BaseMessage{Type: TypeMessage}, Content: "hello"}))

	assert.Equal(t, "echo: hello", readJSON[ReplyMessage](t, first).Response)
	assert.Equal(t, "echo: hello", readJSON[ReplyMessage](t, second).Response)
}

func TestProcessorError(t *testing.T) {
	conn := dial(t, startServer(t, Options{}, &fakeProcessor{err: errors.New("boom")}))

	require.NoError(t, conn.WriteJSON(HelloMessage{BaseMessage: BaseMessage{Type: TypeHello}}))
	readJSON[HelloAckMessage](t, conn)

	require.NoError(t, conn.WriteJSON(ChatMessage{BaseMessage: BaseMessage{Type: TypeMessage}, Content: "hi"}))
	msg := readJSON[ErrorMessage](t, conn)

	assert.Equal(t, ErrorCodeInternalError, msg.Code)
	assert.Equal(t, "boom", msg.Message)
}

func TestHubUnregisterClearsConversation(t *testing.T) {
	h := NewHub()
	conn := &Connection{ID: "c1", Send: make(chan []byte, 1)}
	h.mu.Lock()
	h.connections[conn.ID] = conn
	h.mu.Unlock()

	h.BindConversation(conn, "conv_1")
	assert.Equal(t, 1, h.ConversationCount())

	h.Unregister(conn)
	assert.Equal(t, 0, h.ConnectionCount())
	assert.Equal(t, 0, h.ConversationCount())

	_, ok := <-conn.Send
	assert.False(t, ok)
}
