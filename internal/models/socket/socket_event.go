package models

import (
	"encoding/json"
)

type SocketEvent struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

type SeenMessagePayload struct {
	MessageIds []uint `json:"message_ids"`
}
