package models

import (
	redisModels "marketChat/internal/models/redis"

	"github.com/google/uuid"
)

// SocketClient is one live subscription: a single connected session of a
// user. It holds no durable state; everything it misses while disconnected
// is recovered from the store.
type SocketClient struct {
	SessionID string
	UserID    uint
	Send      chan redisModels.RedisPublishedMessage

	// closed is guarded by the owning hub's mutex.
	closed bool
}

func NewSocketClient(userID uint, bufferSize int) *SocketClient {
	return &SocketClient{
		SessionID: uuid.NewString(),
		UserID:    userID,
		Send:      make(chan redisModels.RedisPublishedMessage, bufferSize),
	}
}
