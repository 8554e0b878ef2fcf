package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"psyscore/internal/domain"
)

// ErrCacheCorrupt indica una entrada que ya no se puede decodificar; conviene borrarla.
var ErrCacheCorrupt = errors.New("result cache entry corrupt")

// ResultCache guarda evaluaciones ya puntuadas para no releer la base.
type ResultCache interface {
	Get(ctx context.Context, id string) (domain.Assessment, bool, error)
	Set(ctx context.Context, assessment domain.Assessment, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

type cachedAssessment struct {
	assessment domain.Assessment
	expiresAt  time.Time
}

type memoryResultCache struct {
	mu    sync.Mutex
	items map[string]cachedAssessment
}

func NewMemoryResultCache() ResultCache {
	return &memoryResultCache{
		items: make(map[string]cachedAssessment),
	}
}

func (c *memoryResultCache) Get(_ context.Context, id string) (domain.Assessment, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[id]
	if !ok {
		return domain.Assessment{}, false, nil
	}
	if time.Now().UTC().After(item.expiresAt) {
		delete(c.items, id)
		return domain.Assessment{}, false, nil
	}
	return item.assessment, true, nil
}

func (c *memoryResultCache) Set(_ context.Context, assessment domain.Assessment, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if strings.TrimSpace(assessment.ID) == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	c.items[assessment.ID] = cachedAssessment{assessment: assessment, expiresAt: time.Now().UTC().Add(ttl)}
	return nil
}

func (c *memoryResultCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
	return nil
}

const defaultCacheTTL = 30 * time.Minute

type redisKVClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisResultCache struct {
	client redisKVClient
	prefix string
}

func NewRedisResultCache(client *redis.Client) ResultCache {
	if client == nil {
		return nil
	}
	return &redisResultCache{
		client: client,
		prefix: "psyscore:assessment:",
	}
}

func (c *redisResultCache) Get(ctx context.Context, id string) (domain.Assessment, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Assessment{}, false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	raw, err := c.client.Get(ctx, c.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Assessment{}, false, nil
	}
	if err != nil {
		return domain.Assessment{}, false, err
	}
	var a domain.Assessment
	if err := json.Unmarshal(raw, &a); err != nil {
		return domain.Assessment{}, false, fmt.Errorf("%w: %v", ErrCacheCorrupt, err)
	}
	return a, true, nil
}

func (c *redisResultCache) Set(ctx context.Context, assessment domain.Assessment, ttl time.Duration) error {
	id := strings.TrimSpace(assessment.ID)
	if id == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	payload, err := json.Marshal(assessment)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return c.client.Set(ctx, c.prefix+id, payload, ttl).Err()
}

func (c *redisResultCache) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return c.client.Del(ctx, c.prefix+id).Err()
}
