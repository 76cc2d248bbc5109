package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/hugh/orghub/internal/api/dto"
	"github.com/hugh/orghub/internal/auth"
	"github.com/redis/go-redis/v9"
)

// RateLimiter applies a fixed-window limit per organization. Authenticated
// requests are keyed by the organization id embedded in the token; everything
// else falls back to the client IP. Counters live in Redis, so the limit
// holds across server instances.
type RateLimiter struct {
	redis    *redis.Client
	jwt      auth.TokenService
	requests int
	window   time.Duration
}

func NewRateLimiter(redisClient *redis.Client, jwtService auth.TokenService, requests, windowSeconds int) *RateLimiter {
	if requests <= 0 {
		requests = 100
	}
	if windowSeconds <= 0 {
		windowSeconds = 60
	}
	return &RateLimiter{
		redis:    redisClient,
		jwt:      jwtService,
		requests: requests,
		window:   time.Duration(windowSeconds) * time.Second,
	}
}

// key identifies the rate-limit bucket for a request.
func (rl *RateLimiter) key(r *http.Request) string {
	if token := BearerToken(r); token != "" {
		if claims, err := rl.jwt.ValidateToken(token); err == nil {
			return "ratelimit:org:" + claims.OrganizationID.String()
		}
	}
	return "ratelimit:ip:" + clientIP(r)
}

// allow increments the caller's window counter and reports whether the
// request fits the limit, plus the remaining budget and window reset time.
func (rl *RateLimiter) allow(r *http.Request) (bool, int, time.Time, error) {
	ctx := r.Context()
	key := rl.key(r)

	count, err := rl.redis.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, time.Time{}, err
	}
	if count == 1 {
		rl.redis.Expire(ctx, key, rl.window)
	}

	ttl, err := rl.redis.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = rl.window
	}
	reset := time.Now().Add(ttl)

	remaining := rl.requests - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return count <= int64(rl.requests), remaining, reset, nil
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, remaining, reset, err := rl.allow(r)
		if err != nil {
			// Redis being down should not take the API with it.
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.requests))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if !allowed {
			retryAfter := int64(time.Until(reset).Seconds()) + 1
			w.Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(dto.Error("Rate limit exceeded"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RateLimit returns the rate-limiting middleware, or a pass-through when no
// Redis client is configured.
func RateLimit(redisClient *redis.Client, jwtService auth.TokenService, requests, windowSeconds int) func(http.Handler) http.Handler {
	if redisClient == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	limiter := NewRateLimiter(redisClient, jwtService, requests, windowSeconds)
	return limiter.Handler
}

// clientIP extracts the client IP from the request.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	for i := len(ip) - 1; i >= 0; i-- {
		if ip[i] == ':' {
			return ip[:i]
		}
	}
	return ip
}
