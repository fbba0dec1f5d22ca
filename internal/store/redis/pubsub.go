// Package redis fans audit records out to live admin feeds.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// AdminLogChannel carries every audit record once it has been persisted.
const AdminLogChannel = "admin-logs"

// EntityChannel returns the channel for audit records about one entity, so a
// detail view can follow a single dispute or withdrawal.
func EntityChannel(entityType string, id uuid.UUID) string {
	return "admin-logs:" + entityType + ":" + id.String()
}

type PubSub struct {
	client *redis.Client
}

func New(ctx context.Context, addr, password string, db int) (*PubSub, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &PubSub{client: client}, nil
}

func (ps *PubSub) Close() error {
	if err := ps.client.Close(); err != nil {
		return fmt.Errorf("redis.PubSub.Close: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (ps *PubSub) Ping(ctx context.Context) error {
	return ps.client.Ping(ctx).Err()
}

// PublishJSON marshals v and publishes it on every given channel.
func (ps *PubSub) PublishJSON(ctx context.Context, v any, channels ...string) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("redis.PubSub.PublishJSON: marshal: %w", err)
	}

	pipe := ps.client.Pipeline()
	for _, ch := range channels {
		pipe.Publish(ctx, ch, payload)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis.PubSub.PublishJSON: %w", err)
	}

	return nil
}

// Subscribe streams raw payloads from channel until ctx is done or the
// returned cleanup is called. Slow readers drop nothing: the forwarder blocks.
func (ps *PubSub) Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error) {
	sub := ps.client.Subscribe(ctx, channel)

	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("redis.PubSub.Subscribe: receive confirmation: %w", err)
	}

	out := make(chan []byte, 64)
	redisCh := sub.Channel()

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-redisCh:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	cleanup := func() {
		_ = sub.Close()
	}

	return out, cleanup, nil
}
