package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"psyscore/internal/domain"
)

type mockRedisKVClient struct {
	values map[string][]byte

	lastSetKey string
	lastSetTTL time.Duration
	lastDel    []string

	getErr error
	setErr error
}

func newMockRedisKV() *mockRedisKVClient {
	return &mockRedisKVClient{values: map[string][]byte{}}
}

func (m *mockRedisKVClient) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if m.getErr != nil {
		cmd.SetErr(m.getErr)
		return cmd
	}
	v, ok := m.values[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(string(v))
	return cmd
}

func (m *mockRedisKVClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.lastSetKey = key
	m.lastSetTTL = expiration
	cmd := redis.NewStatusCmd(ctx)
	if m.setErr != nil {
		cmd.SetErr(m.setErr)
		return cmd
	}
	m.values[key] = value.([]byte)
	cmd.SetVal("OK")
	return cmd
}

func (m *mockRedisKVClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	m.lastDel = keys
	for _, k := range keys {
		delete(m.values, k)
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(int64(len(keys)))
	return cmd
}

func sampleAssessment(id string) domain.Assessment {
	return domain.Assessment{
		ID:             id,
		RespondentHash: "hash",
		Tier:           domain.TierStandard,
		Result:         domain.ScoringResult{Archetype: domain.Archetype{Name: "Adaptive Generalist"}},
		CreatedAt:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestMemoryResultCache_Basics(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryResultCache()

	if _, ok, err := cache.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected miss, got %v,%v", ok, err)
	}
	if err := cache.Set(ctx, sampleAssessment("a1"), 50*time.Millisecond); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, ok, err := cache.Get(ctx, "a1")
	if err != nil || !ok || got.Result.Archetype.Name != "Adaptive Generalist" {
		t.Fatalf("expected hit, got %+v,%v,%v", got, ok, err)
	}

	time.Sleep(70 * time.Millisecond)
	if _, ok, _ := cache.Get(ctx, "a1"); ok {
		t.Fatalf("expected entry expired")
	}

	if err := cache.Set(ctx, sampleAssessment(""), time.Minute); err != nil {
		t.Fatalf("empty id set should be no-op, got %v", err)
	}
	_ = cache.Set(ctx, sampleAssessment("a2"), time.Minute)
	_ = cache.Delete(ctx, "a2")
	if _, ok, _ := cache.Get(ctx, "a2"); ok {
		t.Fatalf("expected deleted entry absent")
	}
}

func TestRedisResultCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	mock := newMockRedisKV()
	cache := &redisResultCache{client: mock, prefix: "psyscore:assessment:"}

	if err := cache.Set(ctx, sampleAssessment("a1"), 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if mock.lastSetKey != "psyscore:assessment:a1" {
		t.Fatalf("unexpected key %q", mock.lastSetKey)
	}
	if mock.lastSetTTL != defaultCacheTTL {
		t.Fatalf("expected default ttl, got %v", mock.lastSetTTL)
	}

	var stored domain.Assessment
	if err := json.Unmarshal(mock.values["psyscore:assessment:a1"], &stored); err != nil {
		t.Fatalf("stored payload is not json: %v", err)
	}

	got, ok, err := cache.Get(ctx, " a1 ")
	if err != nil || !ok {
		t.Fatalf("expected hit, got %v,%v", ok, err)
	}
	if got.ID != "a1" || !got.CreatedAt.Equal(stored.CreatedAt) {
		t.Fatalf("unexpected assessment: %+v", got)
	}

	if _, ok, err := cache.Get(ctx, "other"); err != nil || ok {
		t.Fatalf("expected redis.Nil to be a miss, got %v,%v", ok, err)
	}

	if err := cache.Delete(ctx, "a1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(mock.lastDel) != 1 || mock.lastDel[0] != "psyscore:assessment:a1" {
		t.Fatalf("unexpected del keys: %+v", mock.lastDel)
	}
}

func TestRedisResultCache_Errors(t *testing.T) {
	ctx := context.Background()
	mock := newMockRedisKV()
	mock.getErr = errors.New("get failed")
	mock.setErr = errors.New("set failed")
	cache := &redisResultCache{client: mock, prefix: "p:"}

	if _, _, err := cache.Get(ctx, "a1"); err == nil || errors.Is(err, ErrCacheCorrupt) {
		t.Fatalf("expected plain get error, got %v", err)
	}
	if err := cache.Set(ctx, sampleAssessment("a1"), time.Minute); err == nil {
		t.Fatalf("expected set error")
	}
	if err := cache.Set(ctx, sampleAssessment(" "), time.Minute); err != nil {
		t.Fatalf("blank id should be no-op, got %v", err)
	}
}

func TestRedisResultCache_CorruptEntry(t *testing.T) {
	mock := newMockRedisKV()
	mock.values["p:a1"] = []byte("[]")
	cache := &redisResultCache{client: mock, prefix: "p:"}

	_, ok, err := cache.Get(context.Background(), "a1")
	if ok || !errors.Is(err, ErrCacheCorrupt) {
		t.Fatalf("expected corrupt entry error, got %v %v", ok, err)
	}
}
