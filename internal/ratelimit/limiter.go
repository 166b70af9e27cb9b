// Package ratelimit provides an in-memory sliding-window limiter guarding
// the login endpoint against credential guessing.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter tracks request timestamps per key over a sliding window. The
// sliding window avoids the burst-at-boundary problem of fixed buckets.
// In-memory only: this service runs as a single process.
type Limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[string]*slidingWindow
}

type slidingWindow struct {
	timestamps []time.Time
}

// New creates a limiter allowing limit requests per key within window.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:   limit,
		window:  window,
		buckets: make(map[string]*slidingWindow),
	}
}

// Allow records a request for key and reports whether it is within the
// limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	sw := l.buckets[key]
	if sw == nil {
		sw = &slidingWindow{}
		l.buckets[key] = sw
	}
	sw.cleanup(now, l.window)

	if len(sw.timestamps) >= l.limit {
		return false
	}
	sw.timestamps = append(sw.timestamps, now)
	return true
}

// Remaining returns how many requests key has left in the current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	sw := l.buckets[key]
	if sw == nil {
		return l.limit
	}
	sw.cleanup(time.Now(), l.window)
	if left := l.limit - len(sw.timestamps); left > 0 {
		return left
	}
	return 0
}

// Reset clears the counter for a key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}

// cleanup drops timestamps that fell out of the window. Must be called with
// the limiter lock held.
func (sw *slidingWindow) cleanup(now time.Time, window time.Duration) {
	cutoff := now.Add(-window)
	i := 0
	for ; i < len(sw.timestamps); i++ {
		if sw.timestamps[i].After(cutoff) {
			break
		}
	}
	sw.timestamps = sw.timestamps[i:]
}
