package models

const REDIS_CHANNEL_CHAT = "chat_events"

// RedisPublishedMessage is the fan-out envelope. Every service instance
// subscribes to the chat channel and routes the event to the receiver's open
// sessions on its own hub, so delivery works across instances.
type RedisPublishedMessage struct {
	Event      string `json:"event"`
	ReceiverID uint   `json:"receiver_id"`
	Payload    any    `json:"payload"`
}
