// Package ratelimit paces outbound scraping traffic: randomized inter-request
// delays, a bounded-concurrency task runner, and per-host minimum spacing.
package ratelimit

import (
	"context"
	"math/rand"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Default delay window for randomized delays.
const (
	DefaultMinDelay = 1000 * time.Millisecond
	DefaultMaxDelay = 3000 * time.Millisecond
)

// RandomDelay sleeps for a uniformly random duration in [min, max].
// It returns early with the context error if ctx is cancelled.
func RandomDelay(ctx context.Context, min, max time.Duration) error {
	if min <= 0 && max <= 0 {
		min, max = DefaultMinDelay, DefaultMaxDelay
	}
	if max < min {
		max = min
	}

	d := min
	if span := max - min; span > 0 {
		d += time.Duration(rand.Int63n(int64(span) + 1))
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Task is a unit of work executed by Run.
type Task[T any] func(ctx context.Context) (T, error)

// Result holds one task's outcome. Task errors are reported here, not
// swallowed; callers decide how to handle partial failure.
type Result[T any] struct {
	Value T
	Err   error
}

// Run executes tasks with at most limit in flight at once, inserting a
// randomized delay in [minDelay, maxDelay] before each task. Results are
// returned in task order once every task has settled.
func Run[T any](ctx context.Context, tasks []Task[T], limit int, minDelay, maxDelay time.Duration) []Result[T] {
	if limit <= 0 {
		limit = 1
	}

	results := make([]Result[T], len(tasks))
	sem := make(chan struct{}, limit)

	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task Task[T]) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if minDelay > 0 || maxDelay > 0 {
				if delayErr := RandomDelay(ctx, minDelay, maxDelay); delayErr != nil {
					results[i] = Result[T]{Err: delayErr}
					return
				}
			}

			value, taskErr := task(ctx)
			results[i] = Result[T]{Value: value, Err: taskErr}
		}(i, task)
	}
	wg.Wait()

	return results
}

// HostLimiter enforces a minimum interval between requests to the same host.
type HostLimiter struct {
	mu          sync.Mutex
	limiters    map[string]*rate.Limiter
	minInterval time.Duration
}

// NewHostLimiter creates a limiter with the given minimum per-host spacing.
func NewHostLimiter(minInterval time.Duration) *HostLimiter {
	if minInterval <= 0 {
		minInterval = time.Second
	}
	return &HostLimiter{
		limiters:    make(map[string]*rate.Limiter),
		minInterval: minInterval,
	}
}

// Wait blocks until a request to rawURL's host is allowed.
func (h *HostLimiter) Wait(ctx context.Context, rawURL string) error {
	host := hostOf(rawURL)
	return h.limiterFor(host).Wait(ctx)
}

func (h *HostLimiter) limiterFor(host string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()

	l, ok := h.limiters[host]
	if !ok {
		l = rate.NewLimiter(rate.Every(h.minInterval), 1)
		h.limiters[host] = l
	}
	return l
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Hostname()
}
