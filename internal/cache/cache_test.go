package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
)

func TestMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("miss then hit", func(t *testing.T) {
		t.Parallel()

		m := NewMemory()
		if _, found, err := m.Get(ctx, "k"); found || err != nil {
			t.Fatalf("expected miss, got found=%v err=%v", found, err)
		}
		if err := m.Set(ctx, "k", "v", 0); err != nil {
			t.Fatalf("set: %v", err)
		}
		v, found, err := m.Get(ctx, "k")
		if err != nil || !found || v != "v" {
			t.Errorf("expected hit v, got %q found=%v err=%v", v, found, err)
		}
	})

	t.Run("expired entries are dropped", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		m := NewMemory()
		m.now = func() time.Time { return now }

		if err := m.Set(ctx, "k", "v", time.Minute); err != nil {
			t.Fatalf("set: %v", err)
		}
		now = now.Add(30 * time.Second)
		if _, found, _ := m.Get(ctx, "k"); !found {
			t.Error("expected entry before expiry")
		}
		now = now.Add(time.Minute)
		if _, found, _ := m.Get(ctx, "k"); found {
			t.Error("expected entry to expire")
		}
		if m.Len() != 0 {
			t.Errorf("expected expired entry to be removed, len=%d", m.Len())
		}
	})

	t.Run("close is a no-op", func(t *testing.T) {
		t.Parallel()
		if err := NewMemory().Close(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestNewRedis_Unreachable(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Port 1 is reserved and never runs redis.
	if _, err := NewRedis(ctx, "127.0.0.1:1"); err == nil {
		t.Error("expected connection error")
	}
}

func TestRedis_ClosedClient(t *testing.T) {
	t.Parallel()

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	r := NewRedisFromClient(client)
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if _, _, err := r.Get(context.Background(), "k"); err == nil {
		t.Error("expected error from closed client")
	}
	if err := r.Set(context.Background(), "k", "v", time.Minute); err == nil {
		t.Error("expected error from closed client")
	}
}
