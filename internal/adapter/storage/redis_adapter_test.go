package storage

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/redis/go-redis/v9"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestDemand_Miss(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	// Setup - ensure key doesn't exist
	client.Del(ctx, "demand:9001")

	_, ok, err := adapter.Demand(ctx, 9001)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected miss for nonexistent key")
	}
}

func TestSetDemand_RoundTrip(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)
	client.Del(ctx, "demand:9002", "demand_version:9002")

	version, err := adapter.DemandVersion(ctx, 9002)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0 for a fresh item, got %d", version)
	}

	if err := adapter.SetDemand(ctx, 9002, 4, version); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count, ok, err := adapter.Demand(ctx, 9002)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || count != 4 {
		t.Errorf("expected cached demand 4, got %d (ok=%v)", count, ok)
	}

	if ttl := client.TTL(ctx, "demand:9002").Val(); ttl <= 0 {
		t.Errorf("expected demand key to expire, ttl=%v", ttl)
	}
}

func TestInvalidateDemand(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)
	client.Del(ctx, "demand:9003", "demand_version:9003")

	adapter.SetDemand(ctx, 9003, 2, 0)
	if err := adapter.InvalidateDemand(ctx, 9003); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok, _ := adapter.Demand(ctx, 9003); ok {
		t.Error("expected cached demand to be dropped")
	}
	version, _ := adapter.DemandVersion(ctx, 9003)
	if version != 1 {
		t.Errorf("expected version 1, got %d", version)
	}
	if ttl := client.TTL(ctx, "demand_version:9003").Val(); ttl <= 0 {
		t.Errorf("expected version key to expire, ttl=%v", ttl)
	}
}

func TestSetDemand_StaleVersionIgnored(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)
	client.Del(ctx, "demand:9004", "demand_version:9004")

	// Count read before a purchase, written after it
	version, _ := adapter.DemandVersion(ctx, 9004)
	if err := adapter.InvalidateDemand(ctx, 9004); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := adapter.SetDemand(ctx, 9004, 7, version); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok, _ := adapter.Demand(ctx, 9004); ok {
		t.Error("expected stale count not to be cached")
	}
}

func TestInvalidateDemand_Concurrent(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)
	totalRequests := 50
	client.Del(ctx, "demand:9006", "demand_version:9006")

	var wg sync.WaitGroup
	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := adapter.InvalidateDemand(ctx, 9006); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	version, _ := adapter.DemandVersion(ctx, 9006)
	if version != int64(totalRequests) {
		t.Errorf("expected version %d, got %d", totalRequests, version)
	}
}

func TestForgetItem(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)
	client.Del(ctx, "demand:9005", "demand_version:9005")

	adapter.SetDemand(ctx, 9005, 1, 0)
	adapter.InvalidateDemand(ctx, 9005)
	adapter.SetDemand(ctx, 9005, 1, 1)
	if err := adapter.ForgetItem(ctx, 9005); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok, _ := adapter.Demand(ctx, 9005); ok {
		t.Error("expected demand to be forgotten")
	}
	if n := client.Exists(ctx, "demand_version:9005").Val(); n != 0 {
		t.Error("expected version key to be removed")
	}
}

func TestSetIdempotency_Success(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	// Setup
	client.Del(ctx, "idempotency:test-idem-key")

	// First call should succeed
	ok, err := adapter.SetIdempotency(ctx, "test-idem-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected first call to succeed")
	}

	// Second call should fail (key exists)
	ok, err = adapter.SetIdempotency(ctx, "test-idem-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected second call to fail")
	}

	// Cleared key can be taken again
	if err := adapter.ClearIdempotency(ctx, "test-idem-key"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ok, _ = adapter.SetIdempotency(ctx, "test-idem-key")
	if !ok {
		t.Error("expected call after clear to succeed")
	}
}

func TestSetIdempotency_Concurrent(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	// Setup
	client.Del(ctx, "idempotency:concurrent-idem-key")

	var successCount atomic.Int32
	var wg sync.WaitGroup
	concurrency := 100

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := adapter.SetIdempotency(ctx, "concurrent-idem-key")
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if ok {
				successCount.Add(1)
			}
		}()
	}

	wg.Wait()

	// Only one should succeed
	if successCount.Load() != 1 {
		t.Errorf("expected exactly 1 success, got %d", successCount.Load())
	}
}

func TestNopCache(t *testing.T) {
	ctx := context.Background()
	var cache NopCache

	for i := 0; i < 2; i++ {
		ok, err := cache.SetIdempotency(ctx, "same")
		if err != nil || !ok {
			t.Errorf("expected key accepted, got ok=%v err=%v", ok, err)
		}
	}

	cache.SetDemand(ctx, 1, 5, 0)
	if _, ok, _ := cache.Demand(ctx, 1); ok {
		t.Error("expected NopCache to always miss")
	}
}
