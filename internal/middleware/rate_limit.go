package middleware

import (
	"hash/fnv"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cart-service/internal/domain/dto"
	"github.com/guttosm/cart-service/internal/i18n"
)

const defaultNumShards = 16

// window holds the counts of the current and previous fixed windows for one client.
type window struct {
	start    time.Time
	current  int
	previous int
}

type rateLimiterShard struct {
	mu      sync.Mutex
	clients map[string]*window
}

// RateLimiter is a sharded sliding-window limiter keyed by client IP.
//
// The request count over the last window is estimated from the previous
// fixed window, weighted by how much of it still overlaps, plus the current one.
type RateLimiter struct {
	shards []*rateLimiterShard
	rate   int
	window time.Duration
	now    func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter allows rate requests per window for each client.
func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	return newRateLimiter(rate, window, defaultNumShards, time.Now)
}

func newRateLimiter(rate int, w time.Duration, numShards int, now func() time.Time) *RateLimiter {
	if numShards <= 0 {
		numShards = defaultNumShards
	}
	shards := make([]*rateLimiterShard, numShards)
	for i := range shards {
		shards[i] = &rateLimiterShard{clients: make(map[string]*window)}
	}

	rl := &RateLimiter{
		shards: shards,
		rate:   rate,
		window: w,
		now:    now,
		stopCh: make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) shard(id string) *rateLimiterShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return rl.shards[h.Sum32()%uint32(len(rl.shards))]
}

// Allow records a request from id and reports whether it fits, with the
// remaining budget.
func (rl *RateLimiter) Allow(id string) (bool, int) {
	s := rl.shard(id)
	s.mu.Lock()
	defer s.mu.Unlock()

	now := rl.now()
	w, ok := s.clients[id]
	if !ok {
		w = &window{start: now}
		s.clients[id] = w
	}

	switch elapsed := now.Sub(w.start); {
	case elapsed >= 2*rl.window:
		w.start, w.previous, w.current = now, 0, 0
	case elapsed >= rl.window:
		w.start, w.previous, w.current = w.start.Add(rl.window), w.current, 0
	}

	overlap := 1 - float64(now.Sub(w.start))/float64(rl.window)
	estimate := int(float64(w.previous)*overlap) + w.current
	if estimate >= rl.rate {
		return false, 0
	}
	w.current++
	return true, rl.rate - estimate - 1
}

// Middleware answers 429 once a client exceeds its budget.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	limit := strconv.Itoa(rl.rate)
	retryAfter := strconv.Itoa(int(rl.window.Seconds()))

	return func(c *gin.Context) {
		allowed, remaining := rl.Allow(c.ClientIP())

		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewError(dto.ErrCodeRateLimit, i18n.Message(c, i18n.ErrKeyRateLimitExceeded)).WithRequestID(GetRequestID(c)))
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictIdle()
		case <-rl.stopCh:
			return
		}
	}
}

// evictIdle drops clients whose windows no longer affect any estimate.
func (rl *RateLimiter) evictIdle() {
	cutoff := rl.now().Add(-2 * rl.window)
	for _, s := range rl.shards {
		s.mu.Lock()
		for id, w := range s.clients {
			if w.start.Before(cutoff) {
				delete(s.clients, id)
			}
		}
		s.mu.Unlock()
	}
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Clients returns the number of tracked clients.
func (rl *RateLimiter) Clients() int {
	n := 0
	for _, s := range rl.shards {
		s.mu.Lock()
		n += len(s.clients)
		s.mu.Unlock()
	}
	return n
}
