package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const rateLimitedBody = `{"success":false,"error":"Trop de requêtes, réessayez plus tard"}`

type entry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// keyedLimiter holds one token bucket per key. Entries idle for 30 minutes are
// dropped every 10 minutes until ctx is done.
type keyedLimiter[K comparable] struct {
	mu       sync.Mutex
	limiters map[K]*entry
	rps      rate.Limit
	burst    int
}

func newKeyedLimiter[K comparable](ctx context.Context, requestsPerSecond float64, burst int) *keyedLimiter[K] {
	kl := &keyedLimiter[K]{
		limiters: make(map[K]*entry),
		rps:      rate.Limit(requestsPerSecond),
		burst:    burst,
	}

	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				kl.mu.Lock()
				cutoff := time.Now().Add(-30 * time.Minute)
				for k, e := range kl.limiters {
					if e.lastAccess.Before(cutoff) {
						delete(kl.limiters, k)
					}
				}
				kl.mu.Unlock()
			case <-ctx.Done():
				return
			}
		}
	}()

	return kl
}

func (kl *keyedLimiter[K]) allow(key K) bool {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	e, ok := kl.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(kl.rps, kl.burst)}
		kl.limiters[key] = e
	}
	e.lastAccess = time.Now()
	return e.limiter.Allow()
}

// RateLimitByIP applies per-IP rate limiting for unauthenticated endpoints
// such as login. It keys on r.RemoteAddr, which chi's RealIP middleware
// rewrites when the server sits behind a proxy.
func RateLimitByIP(ctx context.Context, requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	kl := newKeyedLimiter[string](ctx, requestsPerSecond, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			if host, _, err := net.SplitHostPort(ip); err == nil {
				ip = host
			}
			if !kl.allow(ip) {
				writeJSONError(w, http.StatusTooManyRequests, rateLimitedBody)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByUser applies per-admin rate limiting. Requests without an
// authenticated user pass through.
func RateLimitByUser(ctx context.Context, requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	kl := newKeyedLimiter[uuid.UUID](ctx, requestsPerSecond, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			if !kl.allow(userID) {
				writeJSONError(w, http.StatusTooManyRequests, rateLimitedBody)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
