package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// SubmissionLimiter limita cuantas evaluaciones persiste un mismo respondente por ventana.
type SubmissionLimiter interface {
	Allow(ctx context.Context, key string) bool
}

type memorySubmissionLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

// NewMemorySubmissionLimiter crea un limiter token-bucket en memoria: max envios por ventana.
func NewMemorySubmissionLimiter(window time.Duration, max int) SubmissionLimiter {
	if window <= 0 {
		window = time.Hour
	}
	if max <= 0 {
		max = 1
	}
	return &memorySubmissionLimiter{
		limit:    rate.Limit(float64(max) / window.Seconds()),
		burst:    max,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (l *memorySubmissionLimiter) Allow(_ context.Context, key string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	l.mu.Lock()
	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()
	return limiter.Allow()
}

const redisSubmissionAllowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type redisSubmissionLimiter struct {
	client   redisEvaler
	window   time.Duration
	max      int
	prefix   string
	fallback SubmissionLimiter
}

// NewRedisSubmissionLimiter cuenta envios con INCR+EXPIRE; si redis falla usa el limiter en memoria.
func NewRedisSubmissionLimiter(client *redis.Client, window time.Duration, max int) SubmissionLimiter {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = time.Hour
	}
	if max <= 0 {
		max = 1
	}
	return &redisSubmissionLimiter{
		client:   client,
		window:   window,
		max:      max,
		prefix:   "psyscore:submit:",
		fallback: NewMemorySubmissionLimiter(window, max),
	}
}

func (l *redisSubmissionLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	normalizedKey := strings.ToLower(strings.TrimSpace(key))
	if normalizedKey == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	seconds := int(l.window.Seconds())
	if seconds <= 0 {
		seconds = 3600
	}
	count, err := l.client.Eval(ctx, redisSubmissionAllowScript, []string{l.prefix + normalizedKey}, seconds).Int()
	if err != nil {
		if l.fallback != nil {
			return l.fallback.Allow(ctx, normalizedKey)
		}
		return true
	}
	return count <= l.max
}
