package auth

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const throttleIdle = 10 * time.Minute

type throttleEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Throttle is a token bucket per client key, used to slow down password guessing.
type Throttle struct {
	mu      sync.Mutex
	clients map[string]*throttleEntry
	limit   rate.Limit
	burst   int
	now     func() time.Time

	lastPrune time.Time
}

// NewThrottle allows perSecond attempts per key with bursts of up to burst.
func NewThrottle(perSecond float64, burst int) *Throttle {
	return &Throttle{
		clients: make(map[string]*throttleEntry),
		limit:   rate.Limit(perSecond),
		burst:   burst,
		now:     time.Now,
	}
}

// Allow reports whether key may make another attempt now.
func (t *Throttle) Allow(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if now.Sub(t.lastPrune) > time.Minute {
		for k, e := range t.clients {
			if now.Sub(e.lastSeen) > throttleIdle {
				delete(t.clients, k)
			}
		}
		t.lastPrune = now
	}

	e, ok := t.clients[key]
	if !ok {
		e = &throttleEntry{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.clients[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}
