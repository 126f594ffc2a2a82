package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// setupTestRedis starts an in-memory Redis and returns it with a connected client.
func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
	})

	return mr, client
}

func TestNewManager(t *testing.T) {
	_, client := setupTestRedis(t)

	manager := NewManager(client)
	if manager == nil {
		t.Fatal("NewManager returned nil")
	}
	if manager.redis != client {
		t.Error("Manager redis client not set correctly")
	}
}

func TestNewManager_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewManager should panic with nil redis client")
		}
	}()
	NewManager(nil)
}

func TestManager_SetAndGet(t *testing.T) {
	mr, client := setupTestRedis(t)
	manager := NewManager(client)
	ctx := context.Background()

	key := MenuKey("ABC")
	payload := []byte(`{"tree":[],"supplements":[]}`)

	if err := manager.Set(ctx, key, payload, time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := manager.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("Data mismatch: got %s, want %s", got, payload)
	}

	// Stored under the documented key with the expiry attached.
	stored, err := mr.Get("menu:ABC")
	if err != nil {
		t.Fatalf("raw key missing: %v", err)
	}
	if stored != string(payload) {
		t.Errorf("raw value = %s, want %s", stored, payload)
	}
	if ttl := mr.TTL("menu:ABC"); ttl != time.Hour {
		t.Errorf("TTL = %v, want %v", ttl, time.Hour)
	}
}

func TestManager_Get_CacheMiss(t *testing.T) {
	_, client := setupTestRedis(t)
	manager := NewManager(client)

	_, err := manager.Get(context.Background(), MenuKey("nonexistent"))
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestManager_Get_Expired(t *testing.T) {
	mr, client := setupTestRedis(t)
	manager := NewManager(client)
	ctx := context.Background()

	key := MenuKey("ABC")
	if err := manager.Set(ctx, key, []byte(`{}`), 10*time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	mr.FastForward(11 * time.Second)

	_, err := manager.Get(ctx, key)
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss for expired entry, got %v", err)
	}
}

func TestManager_Set_InvalidTTL(t *testing.T) {
	mr, client := setupTestRedis(t)
	manager := NewManager(client)

	for _, ttl := range []time.Duration{0, -time.Second} {
		err := manager.Set(context.Background(), MenuKey("ABC"), []byte(`{}`), ttl)
		if !errors.Is(err, ErrInvalidTTL) {
			t.Errorf("Set with ttl %v: got %v, want ErrInvalidTTL", ttl, err)
		}
	}

	if mr.Exists("menu:ABC") {
		t.Error("entry should not be written with an invalid TTL")
	}
}

func TestManager_ErrorsWhenRedisDown(t *testing.T) {
	mr, client := setupTestRedis(t)
	manager := NewManager(client)
	ctx := context.Background()

	mr.Close()

	if _, err := manager.Get(ctx, MenuKey("ABC")); err == nil || errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get with Redis down: got %v, want connection error", err)
	}
	if err := manager.Set(ctx, MenuKey("ABC"), []byte(`{}`), time.Minute); err == nil {
		t.Error("Set with Redis down should fail")
	}
	if err := manager.Ping(ctx); err == nil {
		t.Error("Ping with Redis down should fail")
	}
}

func TestManager_Ping(t *testing.T) {
	_, client := setupTestRedis(t)
	manager := NewManager(client)

	if err := manager.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}
