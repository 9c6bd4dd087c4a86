package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"main/model"
	"main/utils"

	"github.com/redis/go-redis/v9"
)

// ListCache holds per-user template and category lists so the sidebar quick
// panel does not re-query the store on every open. Entries are invalidated
// on write and expire after the configured TTL regardless.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	return &ListCache{client: client, ttl: ttl}
}

func templatesKey(userID string) string {
	return fmt.Sprintf("templates:%s", userID)
}

func categoriesKey(userID string) string {
	return fmt.Sprintf("categories:%s", userID)
}

func (lc *ListCache) get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := lc.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}
	return true, nil
}

func (lc *ListCache) set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	if err := lc.client.Set(ctx, key, data, lc.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

func (lc *ListCache) GetTemplates(ctx context.Context, userID string) ([]*model.Template, bool) {
	var templates []*model.Template
	hit, err := lc.get(ctx, templatesKey(userID), &templates)
	if err != nil {
		utils.TrackError("cache", "template_read_failed")
		return nil, false
	}
	utils.TrackCacheOperation("templates", hit)
	return templates, hit
}

func (lc *ListCache) SetTemplates(ctx context.Context, userID string, templates []*model.Template) {
	if err := lc.set(ctx, templatesKey(userID), templates); err != nil {
		utils.TrackError("cache", "template_write_failed")
	}
}

func (lc *ListCache) InvalidateTemplates(ctx context.Context, userID string) {
	if err := lc.client.Del(ctx, templatesKey(userID)).Err(); err != nil {
		utils.TrackError("cache", "template_invalidate_failed")
	}
}

func (lc *ListCache) GetCategories(ctx context.Context, userID string) ([]*model.Category, bool) {
	var categories []*model.Category
	hit, err := lc.get(ctx, categoriesKey(userID), &categories)
	if err != nil {
		utils.TrackError("cache", "category_read_failed")
		return nil, false
	}
	utils.TrackCacheOperation("categories", hit)
	return categories, hit
}

func (lc *ListCache) SetCategories(ctx context.Context, userID string, categories []*model.Category) {
	if err := lc.set(ctx, categoriesKey(userID), categories); err != nil {
		utils.TrackError("cache", "category_write_failed")
	}
}

func (lc *ListCache) InvalidateCategories(ctx context.Context, userID string) {
	if err := lc.client.Del(ctx, categoriesKey(userID)).Err(); err != nil {
		utils.TrackError("cache", "category_invalidate_failed")
	}
}
