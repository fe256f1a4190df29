package ocr

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RateLimited bounds how often the wrapped recognizer is invoked.
type RateLimited struct {
	next    Recognizer
	limiter *rateLimiter
}

// NewRateLimited allows requestsPerMinute recognitions per minute.
func NewRateLimited(next Recognizer, requestsPerMinute int) *RateLimited {
	return &RateLimited{next: next, limiter: newRateLimiter(requestsPerMinute)}
}

// Recognize waits for a token, then delegates.
func (r *RateLimited) Recognize(ctx context.Context, image []byte) (string, error) {
	if err := r.limiter.wait(ctx); err != nil {
		return "", err
	}
	return r.next.Recognize(ctx, image)
}

// Close stops the token refill goroutine.
func (r *RateLimited) Close() {
	r.limiter.close()
}

// rateLimiter implements a simple token bucket.
type rateLimiter struct {
	stopCh   chan struct{}
	tokens   int
	capacity int
	interval time.Duration
	mu       sync.Mutex
	once     sync.Once
}

func newRateLimiter(requestsPerMinute int) *rateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}

	rl := &rateLimiter{
		tokens:   requestsPerMinute,
		capacity: requestsPerMinute,
		interval: time.Minute / time.Duration(requestsPerMinute),
		stopCh:   make(chan struct{}),
	}

	go rl.refill()

	return rl
}

// wait blocks until a token is available or ctx is done.
func (rl *rateLimiter) wait(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if rl.tryAcquire() {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("rate limiter canceled: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func (rl *rateLimiter) tryAcquire() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.tokens > 0 {
		rl.tokens--
		return true
	}
	return false
}

func (rl *rateLimiter) refill() {
	ticker := time.NewTicker(rl.interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			rl.mu.Lock()
			if rl.tokens < rl.capacity {
				rl.tokens++
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *rateLimiter) close() {
	rl.once.Do(func() { close(rl.stopCh) })
}
