package ratelimit

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/denerose/VeganMealAppApi-sub001/internal/api/respond"
	"github.com/denerose/VeganMealAppApi-sub001/internal/auth"
)

// Config holds the per-caller rate limit settings.
type Config struct {
	RequestsPerMinute int
	Burst             int
	CleanupInterval   time.Duration
}

func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 120,
		Burst:             30,
		CleanupInterval:   5 * time.Minute,
	}
}

type callerLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// Limiter throttles requests per caller. Callers are keyed by bearer token
// when one is present, falling back to the remote address so unauthenticated
// endpoints (register, login) are still bounded.
type Limiter struct {
	cfg Config

	mu       sync.Mutex
	limiters map[string]*callerLimiter

	stopCh chan struct{}
}

// New creates a Limiter and starts its background cleanup of idle entries.
func New(cfg Config) *Limiter {
	l := &Limiter{
		cfg:      cfg,
		limiters: make(map[string]*callerLimiter),
		stopCh:   make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Stop terminates the background cleanup goroutine.
func (l *Limiter) Stop() { close(l.stopCh) }

// Middleware returns the HTTP middleware enforcing the limit.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := callerKey(r)
		if !l.get(key).Allow() {
			writeTooManyRequests(w, l.perSecond())
			log.Warn().Str("caller", key).Str("path", r.URL.Path).Msg("rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Size reports the number of tracked callers, for tests.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

func callerKey(r *http.Request) string {
	if tok, err := auth.ExtractBearerToken(r); err == nil {
		return tok
	}
	return r.RemoteAddr
}

func (l *Limiter) perSecond() rate.Limit {
	return rate.Limit(float64(l.cfg.RequestsPerMinute) / 60.0)
}

func (l *Limiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cl, ok := l.limiters[key]; ok {
		cl.lastAccess = time.Now()
		return cl.limiter
	}
	cl := &callerLimiter{
		limiter:    rate.NewLimiter(l.perSecond(), l.cfg.Burst),
		lastAccess: time.Now(),
	}
	l.limiters[key] = cl
	return cl.limiter
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stopCh:
			return
		}
	}
}

// cleanup drops callers idle for more than twice the cleanup interval.
func (l *Limiter) cleanup() {
	ttl := l.cfg.CleanupInterval * 2
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, cl := range l.limiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(l.limiters, key)
		}
	}
}

func writeTooManyRequests(w http.ResponseWriter, r rate.Limit) {
	retryAfterSec := int(math.Ceil(1.0 / float64(r)))
	if retryAfterSec < 1 {
		retryAfterSec = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSec))
	respond.WriteError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
}
