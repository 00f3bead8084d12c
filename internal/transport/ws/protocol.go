package ws

// Message types from client to server
const (
	TypeHello   = "hello"
	TypeMessage = "message"
)

// Message types from server to client
const (
	TypeHelloAck = "hello_ack"
	TypeReply    = "reply"
	TypeError    = "error"
)

// BaseMessage contains common fields for all messages.
type BaseMessage struct {
	Type           string `json:"type"`
	Ts             int64  `json:"ts"`
	RequestID      string `json:"request_id,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// HelloMessage is sent by the client to bind the connection to a
// conversation. An empty conversation id starts a new conversation.
type HelloMessage struct {
	BaseMessage
	APIKey string `json:"api_key,omitempty"`
}

// HelloAckMessage confirms the bound conversation.
type HelloAckMessage struct {
	BaseMessage
}

// ChatMessage carries one customer message.
type ChatMessage struct {
	BaseMessage
	Content string `json:"content"`
}

// ReplyMessage carries the assistant reply to a ChatMessage.
type ReplyMessage struct {
	BaseMessage
	Response      string   `json:"response"`
	Status        string   `json:"status"`
	TicketID      string   `json:"ticket_id,omitempty"`
	MissingFields []string `json:"missing_fields,omitempty"`
}

// ErrorMessage is sent when a client message cannot be handled.
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrorCodeInvalidMessage       = "invalid_message"
	ErrorCodeUnauthorized         = "unauthorized"
	ErrorCodeConversationRequired = "conversation_required"
	ErrorCodeInternalError        = "internal_error"
)
