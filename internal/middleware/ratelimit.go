// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/cinecatalog/internal/core"
)

type RateLimitConfig struct {
	Limit   redis_rate.Limit
	KeyFunc func(*http.Request) string
	Skip    func(*http.Request) bool
	// FailOpen lets requests through when no bucket can be consulted.
	FailOpen bool
	Logger   *slog.Logger
}

type limitBackend interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// RateLimiter counts requests in redis so every replica shares one budget.
// While redis is unreachable each process falls back to its own token
// buckets.
type RateLimiter struct {
	shared   limitBackend
	fallback *memoryLimiter
	cfg      RateLimitConfig
}

// NewRateLimiter builds a limiter; a nil client limits in memory only.
func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	rl := &RateLimiter{
		fallback: newMemoryLimiter(time.Now),
		cfg:      cfg,
	}
	if rdb != nil {
		rl.shared = redis_rate.NewLimiter(rdb)
	}

	return rl
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.cfg.Skip != nil && rl.cfg.Skip(r) {
			next.ServeHTTP(w, r)
			return
		}

		key := rl.cfg.KeyFunc(r)
		res, err := rl.take(r.Context(), key)
		if err != nil {
			if rl.cfg.FailOpen {
				rl.cfg.Logger.WarnContext(r.Context(), "rate limit check failed, allowing",
					"key", key,
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}
			core.JSON(w, http.StatusServiceUnavailable, core.ErrorBody{
				Code:    "RATE_LIMIT_UNAVAILABLE",
				Message: "rate limiting unavailable",
			})
			return
		}

		writeLimitHeaders(w.Header(), res)

		if res.Allowed < 1 {
			writeRateLimitExceeded(w, res)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) take(ctx context.Context, key string) (*redis_rate.Result, error) {
	if rl.shared != nil {
		res, err := rl.shared.Allow(ctx, key, rl.cfg.Limit)
		if err == nil {
			return res, nil
		}
		rl.cfg.Logger.DebugContext(ctx, "shared rate limit unavailable", "error", err)
	}

	return rl.fallback.Allow(ctx, key, rl.cfg.Limit)
}

// SkipPaths exempts exact request paths, such as probes, from limiting.
func SkipPaths(paths ...string) func(*http.Request) bool {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}

	return func(r *http.Request) bool {
		_, ok := set[r.URL.Path]
		return ok
	}
}

// ClientIP prefers the proxy-appended X-Forwarded-For entry, then
// X-Real-IP, then the socket peer.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		if ip := strings.TrimSpace(hops[len(hops)-1]); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func KeyByIP(r *http.Request) string {
	return "ratelimit:ip:" + ClientIP(r)
}

func KeyByUser(r *http.Request) string {
	if username := GetUsername(r.Context()); username != "" {
		return "ratelimit:user:" + username
	}
	return KeyByIP(r)
}

// KeyByIPAndEndpoint gives every endpoint its own budget per client, so
// login attempts do not consume the register allowance.
func KeyByIPAndEndpoint(r *http.Request) string {
	return KeyByIP(r) + ":endpoint:" + endpointTemplate(r.URL.Path)
}

func endpointTemplate(path string) string {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segs {
		if looksLikeID(seg) {
			segs[i] = "{id}"
		}
	}
	return "/" + strings.Join(segs, "/")
}

func looksLikeID(seg string) bool {
	if seg == "" {
		return false
	}
	if _, err := strconv.ParseUint(seg, 10, 64); err == nil {
		return true
	}
	return len(seg) == 36 && strings.Count(seg, "-") == 4
}

func writeLimitHeaders(h http.Header, res *redis_rate.Result) {
	h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(res.ResetAfter).Unix(), 10))
	h.Set("RateLimit-Policy", fmt.Sprintf("%d;w=%d", res.Limit.Rate, int(res.Limit.Period.Seconds())))
}

func writeRateLimitExceeded(w http.ResponseWriter, res *redis_rate.Result) {
	retryAfter := max(int(res.RetryAfter.Round(time.Second)/time.Second), 1)

	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	core.JSON(w, http.StatusTooManyRequests, core.ErrorBody{
		Code:    "RATE_LIMITED",
		Message: fmt.Sprintf("rate limit exceeded, retry after %d seconds", retryAfter),
	})
}

const (
	sweepInterval = 5 * time.Minute
	bucketIdleTTL = 10 * time.Minute
)

var errInvalidLimit = errors.New("rate limit must have a positive rate and period")

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// memoryLimiter keeps one token bucket per key. Idle buckets are swept
// inline on the request path.
type memoryLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	now       func() time.Time
	lastSweep time.Time
}

func newMemoryLimiter(now func() time.Time) *memoryLimiter {
	return &memoryLimiter{
		buckets:   make(map[string]*bucket),
		now:       now,
		lastSweep: now(),
	}
}

func (m *memoryLimiter) Allow(
	_ context.Context,
	key string,
	limit redis_rate.Limit,
) (*redis_rate.Result, error) {
	if limit.Rate <= 0 || limit.Period <= 0 {
		return nil, errInvalidLimit
	}
	interval := limit.Period / time.Duration(limit.Rate)

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.lastSweep) >= sweepInterval {
		m.sweep(now.Add(-bucketIdleTTL))
		m.lastSweep = now
	}

	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Every(interval), max(limit.Burst, 1))}
		m.buckets[key] = b
	}
	b.lastSeen = now

	res := &redis_rate.Result{
		Limit:      limit,
		RetryAfter: -1,
		ResetAfter: interval,
	}

	if b.limiter.AllowN(now, 1) {
		res.Allowed = 1
	} else {
		deficit := 1 - b.limiter.TokensAt(now)
		res.RetryAfter = time.Duration(deficit * float64(interval))
	}
	res.Remaining = max(int(b.limiter.TokensAt(now)), 0)

	return res, nil
}

func (m *memoryLimiter) sweep(cutoff time.Time) {
	for key, b := range m.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(m.buckets, key)
		}
	}
}

func PerMinute(rate, burst int) redis_rate.Limit {
	return redis_rate.Limit{Rate: rate, Burst: burst, Period: time.Minute}
}
