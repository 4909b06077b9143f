package middleware

import (
	"net/http"
	"net/netip"
	"sync"
	"sync/atomic"
	"time"

	"github.com/senyabanana/rentr-service/internal/utils"

	"golang.org/x/time/rate"
)

const defaultLimiterTTL = 5 * time.Minute

// RateLimiter ограничивает частоту запросов с одного IP.
// Лимитеры клиентов, не присылавших запросов дольше ttl, удаляются.
type RateLimiter struct {
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	trusted   []netip.Prefix
	limiters  sync.Map // ip -> *cachedLimiter
	lastSweep atomic.Int64
	now       func() time.Time
}

type cachedLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nano
}

// RateLimiterOption настраивает RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithTrustedProxies задаёт прокси, которым разрешено передавать адрес клиента в X-Forwarded-For.
func WithTrustedProxies(prefixes []netip.Prefix) RateLimiterOption {
	return func(l *RateLimiter) { l.trusted = prefixes }
}

// WithLimiterTTL задаёт время простоя, после которого лимитер клиента удаляется.
func WithLimiterTTL(ttl time.Duration) RateLimiterOption {
	return func(l *RateLimiter) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// NewRateLimiter создаёт ограничитель на rps запросов в секунду с запасом burst.
// rps = 0 отключает ограничение.
func NewRateLimiter(rps float64, burst int, opts ...RateLimiterOption) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	l := &RateLimiter{
		limit: rate.Limit(rps),
		burst: burst,
		ttl:   defaultLimiterTTL,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.lastSweep.Store(l.now().UnixNano())
	return l
}

// Middleware возвращает обёртку, отвечающую 429 при превышении лимита.
func (l *RateLimiter) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l.limit > 0 && !l.allow(utils.ClientIP(r, l.trusted)) {
				w.Header().Set("Retry-After", "1")
				utils.SendErrorResponse(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (l *RateLimiter) allow(ip string) bool {
	now := l.now()
	l.sweep(now)
	return l.limiterFor(ip, now).AllowN(now, 1)
}

func (l *RateLimiter) limiterFor(ip string, now time.Time) *rate.Limiter {
	v, ok := l.limiters.Load(ip)
	if !ok {
		fresh := &cachedLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		fresh.lastSeen.Store(now.UnixNano())
		v, _ = l.limiters.LoadOrStore(ip, fresh)
	}
	cached := v.(*cachedLimiter)
	cached.lastSeen.Store(now.UnixNano())
	return cached.limiter
}

// sweep удаляет простаивающие лимитеры не чаще одного раза за ttl.
func (l *RateLimiter) sweep(now time.Time) {
	last := l.lastSweep.Load()
	if now.UnixNano()-last < int64(l.ttl) || !l.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	cutoff := now.Add(-l.ttl).UnixNano()
	l.limiters.Range(func(key, value any) bool {
		if value.(*cachedLimiter).lastSeen.Load() < cutoff {
			l.limiters.Delete(key)
		}
		return true
	})
}
