package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	dom "Dashboard/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyList = "question:list:"

// QuestionCache caches question lists (per category filter) in Redis.
// Every mutation invalidates all list keys, because answer_count on a
// cached question changes whenever an answer is added.
type QuestionCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewQuestionCache returns a new QuestionCache.
func NewQuestionCache(rdb *redis.Client, ttl time.Duration) *QuestionCache {
	return &QuestionCache{rdb: rdb, ttl: ttl}
}

// GetList returns the cached list for the category filter, or nil if miss.
func (c *QuestionCache) GetList(ctx context.Context, category string) ([]dom.Question, error) {
	b, err := c.rdb.Get(ctx, keyList+normalizeCategory(category)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Question
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the list for the category filter.
func (c *QuestionCache) SetList(ctx context.Context, category string, list []dom.Question) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyList+normalizeCategory(category), b, c.ttl).Err()
}

// InvalidateAll removes every cached list (cache invalidation on write).
func (c *QuestionCache) InvalidateAll(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, keyList+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func normalizeCategory(category string) string {
	category = strings.TrimSpace(strings.ToLower(category))
	if category == "" || category == "all" {
		return "all"
	}
	return category
}
