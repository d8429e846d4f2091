package interfaces

import (
	redisModels "marketChat/internal/models/redis"
)

// EventPublisher pushes an event toward live subscribers. Best effort only:
// the message is durable before anything is published, so a lost event costs
// a notification, never data.
type EventPublisher interface {
	Publish(event redisModels.RedisPublishedMessage) error
}
