package upstreamapi

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// feedLimiters holds one token-bucket rate limiter per upstream feed so the
// three concurrent fetches the assembler fans out never collectively
// exceed the configured request rate against any single endpoint.
type feedLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newFeedLimiters(limit rate.Limit, burst int) feedLimiters {
	return feedLimiters{limiters: make(map[string]*rate.Limiter), limit: limit, burst: burst}
}

func (f *feedLimiters) wait(ctx context.Context, feed string) error {
	f.mu.Lock()
	l, ok := f.limiters[feed]
	if !ok {
		l = rate.NewLimiter(f.limit, f.burst)
		f.limiters[feed] = l
	}
	f.mu.Unlock()
	return l.Wait(ctx)
}
