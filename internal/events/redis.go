package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisChannel = "marketpulse:news:changes"

// RedisPublisher publishes events on a Redis pub/sub channel so API
// instances can relay changes made by other processes.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", p.channel, err)
	}
	return nil
}

// Relay forwards every event on the Redis channel to dst until ctx is done.
func Relay(ctx context.Context, client *redis.Client, channel string, dst Publisher, logger *slog.Logger) error {
	if channel == "" {
		channel = DefaultRedisChannel
	}

	sub := client.Subscribe(ctx, channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe %s: %w", channel, err)
	}

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			e, err := Decode([]byte(msg.Payload))
			if err != nil {
				logger.Warn("dropping malformed event", "channel", channel, "error", err)
				continue
			}
			if err := dst.Publish(ctx, e); err != nil {
				logger.Warn("relay publish failed", "event_id", e.ID, "error", err)
			}
		}
	}
}

func Decode(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	if e.ID == "" || e.Type == "" {
		return Event{}, fmt.Errorf("decode event: missing id or type")
	}
	return e, nil
}
