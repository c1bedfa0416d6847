package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/pipeline"
)

const (
	ReclassifyQueueKey = "marketpulse:queue:reclassify"
	DeadLetterKey      = "marketpulse:queue:failed"
)

// ConnectRedis accepts either a redis:// URL or a bare host:port.
func ConnectRedis(redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, errors.New("REDIS_URL is not set")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// ListClient is the part of *redis.Client the queue uses.
type ListClient interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	LLen(ctx context.Context, key string) *redis.IntCmd
}

// RedisQueue is a list-backed job queue: LPUSH to enqueue, BRPOP to take.
type RedisQueue struct {
	client        ListClient
	key           string
	deadLetterKey string
}

func NewRedisQueue(client ListClient, key, deadLetterKey string) *RedisQueue {
	return &RedisQueue{client: client, key: key, deadLetterKey: deadLetterKey}
}

func (q *RedisQueue) Push(ctx context.Context, payload string) error {
	return q.client.LPush(ctx, q.key, payload).Err()
}

func (q *RedisQueue) Pop(ctx context.Context, timeout time.Duration) (string, error) {
	result, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", pipeline.ErrQueueEmpty
	}
	if err != nil {
		return "", err
	}
	return result[1], nil
}

func (q *RedisQueue) DeadLetter(ctx context.Context, payload string) error {
	return q.client.LPush(ctx, q.deadLetterKey, payload).Err()
}

func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}
