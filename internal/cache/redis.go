// Package cache keeps short-lived copies of computed news feeds in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"microchat/internal/models"
)

// NewRedisClient connects to addr, which is either host:port or a redis://
// URL, and pings it.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("некорректный адрес Redis %q: %w", addr, err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("Redis недоступен: %w", err)
	}

	return client, nil
}

// FeedCache stores feeds in one hash per user, one field per limit, so a
// single DEL drops every cached variant of a user's feed. A nil *FeedCache
// is valid and never hits.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	if client == nil {
		return nil
	}
	return &FeedCache{client: client, ttl: ttl}
}

func feedKey(userID string) string {
	return "feed:" + userID
}

func (c *FeedCache) Get(ctx context.Context, userID string, limit int) ([]models.News, bool, error) {
	if c == nil {
		return nil, false, nil
	}

	raw, err := c.client.HGet(ctx, feedKey(userID), strconv.Itoa(limit)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("ошибка чтения ленты из кэша: %w", err)
	}

	var items []models.News
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, false, fmt.Errorf("ошибка разбора ленты из кэша: %w", err)
	}

	return items, true, nil
}

func (c *FeedCache) Set(ctx context.Context, userID string, limit int, items []models.News) error {
	if c == nil {
		return nil
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}

	key := feedKey(userID)
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, strconv.Itoa(limit), payload)
		pipe.Expire(ctx, key, c.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("ошибка записи ленты в кэш: %w", err)
	}

	return nil
}

// Invalidate drops the cached feeds of every given user.
func (c *FeedCache) Invalidate(ctx context.Context, userIDs ...string) {
	if c == nil || len(userIDs) == 0 {
		return
	}

	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, feedKey(id))
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		slog.WarnContext(ctx, "не удалось сбросить кэш ленты", "users", len(keys), "error", err)
	}
}
