package httpx

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Pacer hands out one token bucket per host so that all workers hitting
// the same catalog share its request budget.
type Pacer struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewPacer allows rps requests per second per host with the given burst.
// rps <= 0 returns nil, which never waits.
func NewPacer(rps float64, burst int) *Pacer {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &Pacer{
		limit:    rate.Limit(rps),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until host may be hit again or ctx is done.
func (p *Pacer) Wait(ctx context.Context, host string) error {
	if p == nil {
		return ctx.Err()
	}
	return p.limiter(host).Wait(ctx)
}

func (p *Pacer) limiter(host string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	l, ok := p.limiters[host]
	if !ok {
		l = rate.NewLimiter(p.limit, p.burst)
		p.limiters[host] = l
	}
	return l
}
