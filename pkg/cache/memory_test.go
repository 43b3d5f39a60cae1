package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheSetGet(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(10))
	defer mc.Close()
	ctx := context.Background()

	type payload struct {
		Symbol string  `json:"symbol"`
		Price  float64 `json:"price"`
	}

	if err := mc.Set(ctx, "ticker:XXBTZUSD", payload{Symbol: "XXBTZUSD", Price: 42000.5}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got payload
	if err := mc.Get(ctx, "ticker:XXBTZUSD", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Price != 42000.5 || got.Symbol != "XXBTZUSD" {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	var dest string
	err := mc.Get(context.Background(), "nope", &dest)
	if !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "k", "v", time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	var dest string
	if err := mc.Get(ctx, "k", &dest); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected expiry miss, got %v", err)
	}
}

func TestMemoryCacheEviction(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()
	ctx := context.Background()

	_ = mc.Set(ctx, "a", "1", time.Minute)
	time.Sleep(time.Millisecond)
	_ = mc.Set(ctx, "b", "2", time.Minute)
	time.Sleep(time.Millisecond)
	_ = mc.Set(ctx, "c", "3", time.Minute) // evicts "a"

	var dest string
	if err := mc.Get(ctx, "a", &dest); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected LRU eviction of a, got %v", err)
	}
	if err := mc.Get(ctx, "c", &dest); err != nil {
		t.Fatalf("get c: %v", err)
	}
}
