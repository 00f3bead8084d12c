// Command intake-chat is a terminal chat client for the intake socket.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/spf13/pflag"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/transport/ws"
)

// Client is a chat socket client bound to one conversation.
type Client struct {
	conn           *websocket.Conn
	conversationID string
	done           chan struct{}
}

// NewClient connects to the server.
func NewClient(addr string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}

	return &Client{
		conn: conn,
		done: make(chan struct{}),
	}, nil
}

// Close closes the client connection.
func (c *Client) Close() error {
	close(c.done)
	return c.conn.Close()
}

// SendHello sends a hello message and waits for hello_ack.
func (c *Client) SendHello(apiKey, conversationID string) error {
	msg := ws.HelloMessage{
		BaseMessage: ws.BaseMessage{
			Type:           ws.TypeHello,
			Ts:             time.Now().UnixMilli(),
			ConversationID: conversationID,
		},
		APIKey: apiKey,
	}

	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("write hello: %w", err)
	}

	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("read hello_ack: %w", err)
	}

	var base ws.BaseMessage
	if err := json.Unmarshal(data, &base); err != nil {
		return fmt.Errorf("unmarshal hello_ack: %w", err)
	}

	if base.Type == ws.TypeError {
		var errMsg ws.ErrorMessage
		json.Unmarshal(data, &errMsg)
		return fmt.Errorf("hello failed: %s - %s", errMsg.Code, errMsg.Message)
	}

	if base.Type != ws.TypeHelloAck {
		return fmt.Errorf("expected hello_ack, got: %s", base.Type)
	}

	c.conversationID = base.ConversationID
	return nil
}

// SendMessage sends one customer message.
func (c *Client) SendMessage(content string) error {
	msg := ws.ChatMessage{
		BaseMessage: ws.BaseMessage{
			Type:           ws.TypeMessage,
			Ts:             time.Now().UnixMilli(),
			RequestID:      fmt.Sprintf("req_%d", time.Now().UnixNano()),
			ConversationID: c.conversationID,
		},
		Content: content,
	}

	return c.conn.WriteJSON(msg)
}

// ReadMessages forwards server messages to send until the connection
// closes.
func (c *Client) ReadMessages(send func(tea.Msg)) {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				send(disconnectedMsg{err: err})
			}
			return
		}

		var base ws.BaseMessage
		if err := json.Unmarshal(data, &base); err != nil {
			continue
		}

		switch base.Type {
		case ws.TypeReply:
			var reply ws.ReplyMessage
			if err := json.Unmarshal(data, &reply); err == nil {
				send(replyMsg(reply))
			}
		case ws.TypeError:
			var errMsg ws.ErrorMessage
			if err := json.Unmarshal(data, &errMsg); err == nil {
				send(serverErrorMsg(errMsg))
			}
		}
	}
}

func main() {
	flagSet := pflag.NewFlagSet("intake-chat", pflag.ContinueOnError)
	addr := flagSet.String("addr", "ws://localhost:8002/ws", "WebSocket server address")
	apiKey := flagSet.String("api-key", "", "API key for authentication")
	conversation := flagSet.String("conversation", "", "conversation id to resume")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	log.SetFlags(log.Ltime)

	client, err := NewClient(*addr)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer client.Close()

	if err := client.SendHello(*apiKey, *conversation); err != nil {
		log.Fatalf("Hello failed: %v", err)
	}

	program := tea.NewProgram(newModel(client.conversationID, client.SendMessage))
	go client.ReadMessages(program.Send)

	if _, err := program.Run(); err != nil {
		log.Fatalf("Chat failed: %v", err)
	}
}
