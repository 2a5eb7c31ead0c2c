package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tareas-api/proyectos-billing/internal/billing/domain"
)

const (
	listKeyPrefix = "billing:list:" // page data: billing:list:{page}:{limit}
	listTTL       = 30 * time.Second
)

// ListCache keeps short-lived copies of store list pages. Every mutation
// invalidates all pages so the next render re-fetches from the store.
type ListCache struct {
	client *redis.Client
}

// NewListCache creates a new ListCache.
func NewListCache(client *redis.Client) *ListCache {
	return &ListCache{client: client}
}

// Get returns a cached page and whether it was present.
func (c *ListCache) Get(ctx context.Context, page, limit int) ([]domain.Project, bool, error) {
	data, err := c.client.Get(ctx, c.pageKey(page, limit)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read list cache: %w", err)
	}

	var items []domain.Project
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached page: %w", err)
	}
	return items, true, nil
}

// Set stores one page.
func (c *ListCache) Set(ctx context.Context, page, limit int, items []domain.Project) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal page: %w", err)
	}
	if err := c.client.Set(ctx, c.pageKey(page, limit), data, listTTL).Err(); err != nil {
		return fmt.Errorf("failed to write list cache: %w", err)
	}
	return nil
}

// Invalidate drops every cached page.
func (c *ListCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, listKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to invalidate list cache: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan list cache: %w", err)
	}
	return nil
}

func (c *ListCache) pageKey(page, limit int) string {
	return fmt.Sprintf("%s%d:%d", listKeyPrefix, page, limit)
}
