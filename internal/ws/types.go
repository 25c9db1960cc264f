package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeMove      MessageType = "move"
	MessageTypeUndo      MessageType = "undo"
	MessageTypeGameState MessageType = "gameState"
	MessageTypeError     MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MovePayload carries a move in long algebraic form, e.g. "e7e8q".
type MovePayload struct {
	Move string `json:"move"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// NewMessage marshals payload into an envelope.
func NewMessage(t MessageType, payload interface{}) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: data}, nil
}
