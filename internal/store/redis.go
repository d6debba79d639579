package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"deepresearch-backend/internal/models"
)

// RedisStore keeps session histories in Redis lists, one list per session,
// with a sliding TTL. Unlike MemoryStore, idle sessions expire, so the total
// session count stays bounded in long-running deployments. RPUSH/LTRIM run
// in a transactional pipeline, which serializes the read-modify-write on the
// Redis side.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	raw, err := s.client.LRange(ctx, sessionKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", sessionID, err)
	}

	turns := make([]models.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var msg models.ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("corrupt turn in session %s: %w", sessionID, err)
		}
		turns = append(turns, msg)
	}
	return turns, nil
}

func (s *RedisStore) Append(ctx context.Context, sessionID string, turns ...models.ChatMessage) error {
	if len(turns) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(turns))
	for _, t := range turns {
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("failed to encode turn: %w", err)
		}
		values = append(values, data)
	}

	key := sessionKey(sessionID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		pipe.LTrim(ctx, key, int64(-RetentionWindow), -1)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append to session %s: %w", sessionID, err)
	}
	return nil
}

func (s *RedisStore) Replace(ctx context.Context, sessionID string, turns []models.ChatMessage) error {
	values := make([]interface{}, 0, len(turns))
	for _, t := range Trim(turns, RetentionWindow) {
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("failed to encode turn: %w", err)
		}
		values = append(values, data)
	}

	key := sessionKey(sessionID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) > 0 {
			pipe.RPush(ctx, key, values...)
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace session %s: %w", sessionID, err)
	}
	return nil
}
