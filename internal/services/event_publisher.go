package services

import (
	"context"
	"encoding/json"
	redisModels "marketChat/internal/models/redis"

	"github.com/redis/go-redis/v9"
)

// RedisEventPublisher fans events out through the shared redis channel, so
// subscribers connected to any service instance see them.
type RedisEventPublisher struct {
	redis *redis.Client
	ctx   context.Context
}

func NewRedisEventPublisher(redis *redis.Client, ctx context.Context) *RedisEventPublisher {
	return &RedisEventPublisher{
		redis: redis,
		ctx:   ctx,
	}
}

func (rep *RedisEventPublisher) Publish(event redisModels.RedisPublishedMessage) error {
	jsonEvent, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return rep.redis.Publish(rep.ctx, redisModels.REDIS_CHANNEL_CHAT, jsonEvent).Err()
}
