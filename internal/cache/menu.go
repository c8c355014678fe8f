package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/punchamoorthee/messops/internal/domain"
	"github.com/punchamoorthee/messops/internal/service"
	"go.uber.org/zap"
)

const menuKey = "messops:menu"

// NewClient connects to Redis and pings it before returning.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

// MenuCache is a read-through Redis cache in front of a MenuProvider.
type MenuCache struct {
	client *redis.Client
	next   service.MenuProvider
	ttl    time.Duration
	log    *zap.Logger
}

var _ service.MenuProvider = (*MenuCache)(nil)

func NewMenuCache(client *redis.Client, next service.MenuProvider, ttl time.Duration, log *zap.Logger) *MenuCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &MenuCache{client: client, next: next, ttl: ttl, log: log}
}

// GetMenu serves from Redis when possible. Redis failures fall through to
// the wrapped provider.
func (c *MenuCache) GetMenu(ctx context.Context) (domain.Menu, error) {
	raw, err := c.client.Get(ctx, menuKey).Bytes()
	switch {
	case err == nil:
		var m domain.Menu
		if jerr := json.Unmarshal(raw, &m); jerr == nil {
			return m, nil
		}
		c.log.Warn("discarding corrupt cached menu")
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn("menu cache read failed", zap.Error(err))
	}

	m, err := c.next.GetMenu(ctx)
	if err != nil {
		return domain.Menu{}, err
	}

	if body, err := json.Marshal(m); err == nil {
		if err := c.client.Set(ctx, menuKey, body, c.ttl).Err(); err != nil {
			c.log.Warn("menu cache write failed", zap.Error(err))
		}
	}
	return m, nil
}

// Invalidate drops the cached menu.
func (c *MenuCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, menuKey).Err()
}
