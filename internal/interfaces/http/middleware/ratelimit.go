package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/interfaces/http/dto"
)

// RateLimiter counts requests per key in fixed windows held in memory.
// Idle keys are evicted by a background sweep; call Stop to end it.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	windows map[string]*rateWindow

	stop     chan struct{}
	stopOnce sync.Once
}

type rateWindow struct {
	start time.Time
	used  int
}

// Quota is the outcome of one Take
type Quota struct {
	Allowed   bool
	Remaining int
	Reset     time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		windows: make(map[string]*rateWindow),
		stop:    make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(2 * rl.window)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			cutoff := rl.now().Add(-rl.window)
			rl.mu.Lock()
			for key, w := range rl.windows {
				if w.start.Before(cutoff) {
					delete(rl.windows, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Take consumes one request from key's current window
func (rl *RateLimiter) Take(key string) Quota {
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok || now.Sub(w.start) >= rl.window {
		w = &rateWindow{start: now}
		rl.windows[key] = w
	}
	q := Quota{Reset: w.start.Add(rl.window)}
	if w.used < rl.limit {
		w.used++
		q.Allowed = true
	}
	q.Remaining = rl.limit - w.used
	return q
}

// Allow is Take reduced to its verdict
func (rl *RateLimiter) Allow(key string) bool {
	return rl.Take(key).Allowed
}

// Remaining is what key may still send in its current window
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	w, ok := rl.windows[key]
	if !ok || rl.now().Sub(w.start) >= rl.window {
		return rl.limit
	}
	return rl.limit - w.used
}

// RateLimit keys on the client IP, prefixed by the company once Auth has
// resolved one, so one tenant cannot drain another's budget behind a
// shared proxy
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return RateLimitByKey(limiter, func(c *gin.Context) string {
		if companyID := GetCompanyID(c); companyID != uuid.Nil {
			return companyID.String() + ":" + c.ClientIP()
		}
		return c.ClientIP()
	})
}

// RateLimitByKey answers 429 with Retry-After once key's window is used up
func RateLimitByKey(limiter *RateLimiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	limit := strconv.Itoa(limiter.limit)
	return func(c *gin.Context) {
		q := limiter.Take(keyFunc(c))
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(q.Remaining))
		if !q.Allowed {
			wait := math.Ceil(q.Reset.Sub(limiter.now()).Seconds())
			c.Header("Retry-After", strconv.Itoa(max(int(wait), 1)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited, "Too many requests. Please try again later.", c.GetString(RequestIDKey)))
			return
		}
		c.Next()
	}
}
