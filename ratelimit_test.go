package edugo

import (
	"sync"
	"testing"
	"time"
)

func TestRateLimiterQuotaBoundary(t *testing.T) {
	rl := NewRateLimiter(3, 24*time.Hour)

	for i := 0; i < 3; i++ {
		if !rl.Allow(1) {
			t.Fatalf("Call %d should be admitted", i+1)
		}
	}
	if rl.Allow(1) {
		t.Error("Fourth call within the window should be rejected")
	}
	if rl.Remaining(1) != 0 {
		t.Errorf("Expected 0 remaining, got %d", rl.Remaining(1))
	}
}

func TestRateLimiterWindowSlides(t *testing.T) {
	now := time.Now()
	rl := NewRateLimiter(3, 24*time.Hour)
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !rl.Allow(1) {
			t.Fatalf("Call %d should be admitted", i+1)
		}
		now = now.Add(time.Hour)
	}
	if rl.Allow(1) {
		t.Fatal("Over-quota call should be rejected")
	}

	// Once the oldest event ages past 24h, one slot frees up.
	now = now.Add(22 * time.Hour)
	if !rl.Allow(1) {
		t.Error("Call after the oldest event expired should be admitted")
	}
	if rl.Allow(1) {
		t.Error("Quota should be spent again after the freed slot is used")
	}
}

func TestRateLimiterRejectionDoesNotRecord(t *testing.T) {
	now := time.Now()
	rl := NewRateLimiter(1, 24*time.Hour)
	rl.now = func() time.Time { return now }

	if !rl.Allow(1) {
		t.Fatal("First call should be admitted")
	}
	for i := 0; i < 5; i++ {
		if rl.Allow(1) {
			t.Fatal("Over-quota call should be rejected")
		}
	}

	// Only the single admitted event should expire; the rejections must
	// not have extended the ledger.
	now = now.Add(24*time.Hour + time.Second)
	if !rl.Allow(1) {
		t.Error("Call after expiry should be admitted; rejections were recorded")
	}
}

func TestRateLimiterUsersAreIndependent(t *testing.T) {
	rl := NewRateLimiter(1, 24*time.Hour)
	if !rl.Allow(1) {
		t.Fatal("User 1 should be admitted")
	}
	if !rl.Allow(2) {
		t.Error("User 2 must not be affected by user 1's quota")
	}
}

func TestRateLimiterConcurrentSameUser(t *testing.T) {
	rl := NewRateLimiter(3, 24*time.Hour)

	var wg sync.WaitGroup
	admitted := make(chan struct{}, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow(7) {
				admitted <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(admitted)

	n := 0
	for range admitted {
		n++
	}
	if n != 3 {
		t.Errorf("Expected exactly 3 admitted under concurrency, got %d", n)
	}
}
