package relay

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Client -> relay events.
const (
	EventNewMessage        = "new_message"
	EventTypingStart       = "typing_start"
	EventTypingStop        = "typing_stop"
	EventMessageDelivered  = "message_delivered"
	EventJoinConversation  = "join_conversation"
	EventLeaveConversation = "leave_conversation"
	EventUserOnline        = "user_online" // also relay -> client on register
	EventUserAway          = "user_away"
	EventPing              = "ping"
)

// Relay -> client events.
const (
	EventUserStatusChanged = "user_status_changed"
	EventMessageReceived   = "message_received"
	EventMessageSent       = "message_sent"
	EventUserTyping        = "user_typing"
	EventUserStoppedTyping = "user_stopped_typing"
	EventDeliveryConfirmed = "message_delivery_confirmed"
	EventPong              = "pong"
	EventError             = "error"
)

// Frame is the wire envelope for one named event.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// outFrame carries an already-typed payload outbound.
type outFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

func ParseFrame(raw []byte) (*Frame, error) {
	frame := &Frame{}
	if err := json.Unmarshal(raw, frame); err != nil {
		return nil, fmt.Errorf("unmarshal frame failed: %w", err)
	}
	if frame.Event == "" {
		return nil, fmt.Errorf("frame has no event name")
	}
	return frame, nil
}

// Handshake is the first client message after the upgrade. The token rides
// in the message body so it never shows up in URLs or access logs.
type Handshake struct {
	Token string `json:"token"`
}

// ---- client payloads ----

type NewMessagePayload struct {
	ReceiverID     string `json:"receiverId"`
	MessageID      string `json:"messageId"`
	Content        string `json:"content"`
	ConversationID string `json:"conversationId"`
}

type TypingPayload struct {
	ReceiverID     string `json:"receiverId"`
	ConversationID string `json:"conversationId"`
}

type DeliveredPayload struct {
	MessageID string `json:"messageId"`
	SenderID  string `json:"senderId"`
}

// ParseConversationID accepts both the bare-string form
// ("conv-1") and the object form ({"conversationId": "conv-1"}).
func ParseConversationID(raw json.RawMessage) (string, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return "", fmt.Errorf("conversation id missing")
	}
	if strings.HasPrefix(trimmed, "\"") {
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			return "", fmt.Errorf("conversation id not a string: %w", err)
		}
		return id, nil
	}
	var obj struct {
		ConversationID string `json:"conversationId"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", fmt.Errorf("conversation id not an object: %w", err)
	}
	if obj.ConversationID == "" {
		return "", fmt.Errorf("conversation id missing")
	}
	return obj.ConversationID, nil
}

// ---- server payloads ----

type StatusPayload struct {
	UserID    string `json:"userId"`
	Status    Status `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

type MessageReceivedPayload struct {
	MessageID      string `json:"messageId"`
	SenderID       string `json:"senderId"`
	Sender         string `json:"sender"`
	Content        string `json:"content"`
	ConversationID string `json:"conversationId"`
	Timestamp      int64  `json:"timestamp"`
}

type MessageSentPayload struct {
	MessageID  string `json:"messageId"`
	ReceiverID string `json:"receiverId"`
	Timestamp  int64  `json:"timestamp"`
}

type TypingEventPayload struct {
	SenderID       string `json:"senderId"`
	Sender         string `json:"sender,omitempty"`
	ConversationID string `json:"conversationId"`
	Timestamp      int64  `json:"timestamp"`
}

type DeliveryConfirmedPayload struct {
	MessageID  string `json:"messageId"`
	ReceiverID string `json:"receiverId"`
	Timestamp  int64  `json:"timestamp"`
}

type PongPayload struct {
	Timestamp int64 `json:"timestamp"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func nowMillis() int64 { return time.Now().UnixMilli() }
