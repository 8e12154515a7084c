package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"cake_store/internal/models"
)

// ErrNotFound is returned when a draft session or cached payload is absent.
var ErrNotFound = errors.New("not found")

type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Draft session management

func (c *Client) SetDraft(sessionID string, draft *models.DraftOrder, ttl time.Duration) error {
	ctx := context.Background()
	jsonData, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft order: %w", err)
	}

	return c.rdb.Set(ctx, "draft:"+sessionID, jsonData, ttl).Err()
}

func (c *Client) GetDraft(sessionID string) (*models.DraftOrder, error) {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, "draft:"+sessionID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get draft order: %w", err)
	}

	var draft models.DraftOrder
	if err := json.Unmarshal([]byte(val), &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft order: %w", err)
	}

	return &draft, nil
}

func (c *Client) DeleteDraft(sessionID string) error {
	ctx := context.Background()
	return c.rdb.Del(ctx, "draft:"+sessionID).Err()
}

// Cached bakery API payloads

func (c *Client) SetCached(key string, value interface{}, ttl time.Duration) error {
	ctx := context.Background()
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cached payload: %w", err)
	}

	return c.rdb.Set(ctx, "cache:"+key, jsonData, ttl).Err()
}

func (c *Client) GetCached(key string, dest interface{}) error {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, "cache:"+key).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get cached payload: %w", err)
	}

	return json.Unmarshal([]byte(val), dest)
}

func (c *Client) DeleteCached(key string) error {
	ctx := context.Background()
	return c.rdb.Del(ctx, "cache:"+key).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
