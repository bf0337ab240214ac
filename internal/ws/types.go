package ws

import (
	"encoding/json"
)

// MessageType names the events pushed to spectators.
type MessageType string

const (
	MessageTypeSnapshot       MessageType = "snapshot"
	MessageTypePieceSpawned   MessageType = "pieceSpawned"
	MessageTypePieceMoved     MessageType = "pieceMoved"
	MessageTypePieceDestroyed MessageType = "pieceDestroyed"
	MessageTypePiecePromoted  MessageType = "piecePromoted"
	MessageTypeMatchEnded     MessageType = "matchEnded"
	MessageTypeError          MessageType = "error"
)

// Message is the envelope for every websocket frame sent to spectators.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func NewMessage(t MessageType, payload interface{}) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: raw}, nil
}
