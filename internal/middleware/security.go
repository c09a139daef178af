package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/yuchialin/moodjar-backend/pkg/clientip"
)

// SecurityHeaders sets security-related response headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

const (
	perIPRateLimitRPS   = 2
	perIPRateLimitBurst = 20
	limiterTTL          = 30 * time.Minute
	limiterSweepEvery   = 5 * time.Minute
)

type limiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

var (
	limiters   = make(map[string]*limiterEntry)
	limitersMu sync.Mutex
	sweepOnce  sync.Once
)

func getLimiter(ip string) *rate.Limiter {
	limitersMu.Lock()
	defer limitersMu.Unlock()

	sweepOnce.Do(func() {
		go func() {
			for range time.Tick(limiterSweepEvery) {
				limitersMu.Lock()
				cutoff := time.Now().Add(-limiterTTL)
				for ip, entry := range limiters {
					if entry.lastUse.Before(cutoff) {
						delete(limiters, ip)
					}
				}
				limitersMu.Unlock()
			}
		}()
	})

	entry, ok := limiters[ip]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(perIPRateLimitRPS, perIPRateLimitBurst)}
		limiters[ip] = entry
	}
	entry.lastUse = time.Now()
	return entry.limiter
}

// PerIPRateLimit is an in-process token-bucket limiter, used in production
// in front of the Redis fixed-window limiter to absorb bursts cheaply.
func PerIPRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !getLimiter(clientip.RealClientIP(r)).Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"success":false,"message":"Too many requests"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
