package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/models"
)

// NotificationChannel is the Redis pub/sub channel the websocket hub listens on.
const NotificationChannel = "notifications"

// Emitter delivers notifications to whoever is listening.
type Emitter interface {
	Emit(ctx context.Context, n models.Notification) error
}

type RedisEmitter struct {
	redis *redis.Client
}

func NewRedisEmitter(client *redis.Client) *RedisEmitter {
	return &RedisEmitter{redis: client}
}

func (e *RedisEmitter) Emit(ctx context.Context, n models.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}
	return e.redis.Publish(ctx, NotificationChannel, string(data)).Err()
}

type nopEmitter struct{}

func (nopEmitter) Emit(context.Context, models.Notification) error { return nil }

// NopEmitter drops every notification.
func NopEmitter() Emitter { return nopEmitter{} }
