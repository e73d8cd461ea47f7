package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/soyuznik/telegram-ai-bridge/internal/ai"
)

const activeChatsKey = "chat:active"

// RedisHistory keeps per-chat conversation turns in a capped, expiring list.
type RedisHistory struct {
	client *redis.Client
	limit  int
	ttl    time.Duration
}

func NewRedisHistory(client *redis.Client, limit int, ttl time.Duration) *RedisHistory {
	return &RedisHistory{client: client, limit: limit, ttl: ttl}
}

func (h *RedisHistory) key(chatID string) string {
	return fmt.Sprintf("chat:history:%s", chatID)
}

func (h *RedisHistory) Append(ctx context.Context, chatID string, msg ai.Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	key := h.key(chatID)
	pipe := h.client.TxPipeline()
	pipe.RPush(ctx, key, b)
	pipe.LTrim(ctx, key, int64(-h.limit), -1)
	if h.ttl > 0 {
		pipe.Expire(ctx, key, h.ttl)
	}
	pipe.SAdd(ctx, activeChatsKey, chatID)
	_, err = pipe.Exec(ctx)
	return err
}

func (h *RedisHistory) Recent(ctx context.Context, chatID string) ([]ai.Message, error) {
	vals, err := h.client.LRange(ctx, h.key(chatID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	out := make([]ai.Message, 0, len(vals))
	for _, v := range vals {
		var m ai.Message
		if err := json.Unmarshal([]byte(v), &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (h *RedisHistory) Reset(ctx context.Context, chatID string) error {
	pipe := h.client.TxPipeline()
	pipe.Del(ctx, h.key(chatID))
	pipe.SRem(ctx, activeChatsKey, chatID)
	_, err := pipe.Exec(ctx)
	return err
}

func (h *RedisHistory) ActiveChats(ctx context.Context) ([]string, error) {
	return h.client.SMembers(ctx, activeChatsKey).Result()
}
