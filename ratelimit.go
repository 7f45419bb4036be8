package edugo

import (
	"sync"
	"time"
)

// RateLimiter enforces the per-user daily upload quota over a sliding 24h
// window. Check and record happen under one lock so concurrent uploads from
// the same user cannot slip past the quota.
type RateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	usage  map[int64][]time.Time
	now    func() time.Time
}

// NewRateLimiter creates a limiter admitting at most limit events per user
// within the trailing window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:  limit,
		window: window,
		usage:  make(map[int64][]time.Time),
		now:    time.Now,
	}
}

// Allow prunes the user's ledger to the trailing window, then admits and
// records the event unless the quota is already spent. Returns false without
// recording when the user is over quota.
func (rl *RateLimiter) Allow(userID int64) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	kept := rl.usage[userID][:0]
	for _, t := range rl.usage[userID] {
		if now.Sub(t) < rl.window {
			kept = append(kept, t)
		}
	}
	rl.usage[userID] = kept

	if len(kept) >= rl.limit {
		return false
	}
	rl.usage[userID] = append(kept, now)
	return true
}

// Remaining reports how many events the user may still record in the current
// window, without recording anything.
func (rl *RateLimiter) Remaining(userID int64) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	n := 0
	for _, t := range rl.usage[userID] {
		if now.Sub(t) < rl.window {
			n++
		}
	}
	if n >= rl.limit {
		return 0
	}
	return rl.limit - n
}
