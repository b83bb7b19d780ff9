package cache

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

var start = time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

var ttlTests = []struct {
	name  string
	ttl   time.Duration
	after time.Duration
	found bool
}{
	{"feature set just before expiry", 1814400 * time.Second, 21*24*time.Hour - time.Second, true},
	{"feature set just after expiry", 1814400 * time.Second, 21*24*time.Hour + time.Second, false},
	{"search result at 119s", 120 * time.Second, 119 * time.Second, true},
	{"search result at 121s", 120 * time.Second, 121 * time.Second, false},
	{"search result exactly at ttl", 120 * time.Second, 120 * time.Second, false},
}

func TestMemoryRepositoryTTL(t *testing.T) {
	for _, tt := range ttlTests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &fakeClock{t: start}
			r := NewMemoryRepository(WithClock(clock.Now))
			ctx := context.Background()
			if err := r.Set(ctx, "2024-03-05", []byte(`[{"id":"f1"}]`), tt.ttl); err != nil {
				t.Fatal(err)
			}
			clock.Set(start.Add(tt.after))
			v, ok, err := r.Get(ctx, "2024-03-05")
			if err != nil {
				t.Fatalf("shouldn't get an error, got %s", err)
			}
			if ok != tt.found {
				t.Fatalf("got found %t, want %t", ok, tt.found)
			}
			if ok && string(v) != `[{"id":"f1"}]` {
				t.Errorf("got %s", v)
			}
		})
	}
}

func TestMemoryRepositoryOverwrite(t *testing.T) {
	clock := &fakeClock{t: start}
	r := NewMemoryRepository(WithClock(clock.Now))
	ctx := context.Background()
	r.Set(ctx, "result:abc", []byte("first"), time.Minute)
	clock.Set(start.Add(50 * time.Second))
	r.Set(ctx, "result:abc", []byte("second"), time.Minute)
	clock.Set(start.Add(90 * time.Second))
	v, ok, _ := r.Get(ctx, "result:abc")
	if !ok || string(v) != "second" {
		t.Errorf("got %q (found %t), want second write to win and restart the ttl", v, ok)
	}
}

func TestMemoryRepositoryRejectsNonPositiveTTL(t *testing.T) {
	r := NewMemoryRepository()
	if err := r.Set(context.Background(), "k", []byte("v"), 0); err == nil {
		t.Errorf("expected an error for a zero ttl")
	}
}

func TestMemoryRepositoryQueue(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	if _, ok, err := r.PopFront(ctx, "request_queue"); ok || err != nil {
		t.Fatalf("empty queue should yield nothing, got ok=%t err=%v", ok, err)
	}
	for _, v := range []string{"a", "b", "c"} {
		if err := r.PushBack(ctx, "request_queue", []byte(v)); err != nil {
			t.Fatal(err)
		}
	}
	for _, want := range []string{"a", "b", "c"} {
		v, ok, err := r.PopFront(ctx, "request_queue")
		if err != nil || !ok {
			t.Fatalf("expected %s, got ok=%t err=%v", want, ok, err)
		}
		if string(v) != want {
			t.Errorf("got %s, want %s", v, want)
		}
	}
	if _, ok, _ := r.PopFront(ctx, "request_queue"); ok {
		t.Errorf("queue should be drained")
	}
}

func TestMemoryRepositoryConcurrentUse(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Set(ctx, "2024-03-05", []byte("x"), time.Hour)
				r.Get(ctx, "2024-03-05")
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.PushBack(ctx, "q", []byte("x"))
				r.PopFront(ctx, "q")
			}
		}()
	}
	wg.Wait()
}
