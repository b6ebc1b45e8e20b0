package cache

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func TestGetHonoursTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New(30*time.Second, WithClock(clock.Now))

	c.Set("k", []int{1, 2}, 0)
	if _, ok := c.Get("k"); !ok {
		t.Fatalf("expected fresh entry")
	}

	clock.Advance(29 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatalf("entry expired early")
	}

	clock.Advance(time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("entry should be expired at exactly TTL")
	}
}

func TestSetCustomTTLAndOverwrite(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	c := New(time.Minute, WithClock(clock.Now))

	c.Set("k", "old", 5*time.Second)
	c.Set("k", "new", 5*time.Second)
	v, ok := c.Get("k")
	if !ok || v.(string) != "new" {
		t.Fatalf("expected overwrite, got %v %v", v, ok)
	}
	clock.Advance(6 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("custom ttl not applied")
	}
}

func TestPurgeExpired(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	c := New(10*time.Second, WithClock(clock.Now))
	c.Set("a", 1, 0)
	c.Set("b", 2, time.Hour)

	clock.Advance(11 * time.Second)
	if removed := c.PurgeExpired(); removed != 1 {
		t.Fatalf("expected 1 purged, got %d", removed)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 remaining, got %d", c.Len())
	}
}

func TestDefaultTTL(t *testing.T) {
	if got := New(0).TTL(); got != DefaultTTL {
		t.Fatalf("expected %v, got %v", DefaultTTL, got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New(time.Minute)
	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := "k" + strconv.Itoa(i%10)
				c.Set(key, g, 0)
				c.Get(key)
				if i%50 == 0 {
					c.PurgeExpired()
				}
			}
		}(g)
	}
	wg.Wait()
	if c.Len() != 10 {
		t.Fatalf("expected 10 keys, got %d", c.Len())
	}
}

func TestJanitorStopsWithContext(t *testing.T) {
	c := New(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	c.StartJanitor(ctx, 2*time.Millisecond)
	c.Set("k", 1, 0)

	deadline := time.Now().Add(time.Second)
	for c.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	cancel()
	if c.Len() != 0 {
		t.Fatalf("janitor did not purge expired entry")
	}
}
