package redisstore

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/service-scheduler/internal/domain/queue"
)

func TestCounterKey(t *testing.T) {
	got := CounterKey("2026-10-15", 3, queue.TypeAppointment)
	if got != "queue:seq:2026-10-15:3:T" {
		t.Fatalf("key=%q", got)
	}
}

// openTestRedis uses a dedicated prefix per test so runs don't collide.
func openTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestCounterConcurrentRedis(t *testing.T) {
	rdb := openTestRedis(t)
	ctx := context.Background()

	dateKey := fmt.Sprintf("test-%d", time.Now().UnixNano())
	t.Cleanup(func() { rdb.Del(ctx, CounterKey(dateKey, 1, queue.TypeWalkIn)) })

	c := NewCounter(rdb)
	const n = 50
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = map[int64]bool{}
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq, err := c.Next(ctx, dateKey, 1, queue.TypeWalkIn)
			if err != nil {
				t.Errorf("next: %v", err)
				return
			}
			mu.Lock()
			seen[seq] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(seen) != n {
		t.Fatalf("distinct=%d, want %d", len(seen), n)
	}
	for seq := int64(1); seq <= n; seq++ {
		if !seen[seq] {
			t.Fatalf("missing %d", seq)
		}
	}

	ttl, err := rdb.TTL(ctx, CounterKey(dateKey, 1, queue.TypeWalkIn)).Result()
	if err != nil || ttl <= 0 || ttl > counterTTL {
		t.Fatalf("ttl=%v err=%v", ttl, err)
	}
}

func TestLockerRedis(t *testing.T) {
	rdb := openTestRedis(t)
	ctx := context.Background()
	l := NewLocker(rdb)

	name := fmt.Sprintf("test-%d", time.Now().UnixNano())

	release, ok, err := l.Acquire(ctx, name, time.Minute)
	if err != nil || !ok {
		t.Fatalf("first acquire ok=%v err=%v", ok, err)
	}

	if _, ok, err := l.Acquire(ctx, name, time.Minute); err != nil || ok {
		t.Fatalf("second acquire ok=%v err=%v", ok, err)
	}

	if err := release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	// idempotent
	if err := release(ctx); err != nil {
		t.Fatalf("second release: %v", err)
	}

	release, ok, err = l.Acquire(ctx, name, time.Minute)
	if err != nil || !ok {
		t.Fatalf("reacquire ok=%v err=%v", ok, err)
	}
	_ = release(ctx)
}

func TestLockerDoesNotReleaseForeignLease(t *testing.T) {
	rdb := openTestRedis(t)
	ctx := context.Background()
	l := NewLocker(rdb)

	name := fmt.Sprintf("test-%d", time.Now().UnixNano())
	release, ok, err := l.Acquire(ctx, name, time.Minute)
	if err != nil || !ok {
		t.Fatalf("acquire ok=%v err=%v", ok, err)
	}

	// simula expiração e novo dono
	rdb.Set(ctx, LeaseKey(name), "someone-else", time.Minute)
	t.Cleanup(func() { rdb.Del(ctx, LeaseKey(name)) })

	if err := release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if v, _ := rdb.Get(ctx, LeaseKey(name)).Result(); v != "someone-else" {
		t.Fatalf("foreign lease removed, value=%q", v)
	}
}
