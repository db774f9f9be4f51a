package server

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/matzehuels/g6viz/pkg/errors"
	"github.com/matzehuels/g6viz/pkg/observability"
)

// HeaderRequestID carries the request ID in both directions.
const HeaderRequestID = "X-Request-ID"

type ctxKey struct{}

// RequestIDFromContext returns the ID assigned by the request ID middleware.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// requestID reuses a well-formed incoming X-Request-ID or generates a v4 UUID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// routePattern returns the matched chi pattern, which keeps metric labels
// bounded.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// instrument reports every request to the server hooks and the log.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := routePattern(r)
		d := time.Since(start)
		observability.Server().OnRequest(r.Context(), r.Method, route, status, d)
		s.logger.Info("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", d,
			"request_id", RequestIDFromContext(r.Context()))
	})
}

// limiterIdle is the minimum time a client's bucket is kept without traffic.
const limiterIdle = 10 * time.Minute

// clientLimiter hands out one token bucket per client address. Buckets idle
// for longer than idle are dropped during the next sweep.
type clientLimiter struct {
	limit rate.Limit
	burst int
	idle  time.Duration
	now   func() time.Time

	mu        sync.Mutex
	clients   map[string]*clientBucket
	lastSweep time.Time
}

type clientBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

func newClientLimiter(rps float64, burst int) *clientLimiter {
	idle := limiterIdle
	// A bucket idle for its full refill time is indistinguishable from a new one.
	if rps > 0 {
		idle = max(idle, time.Duration(float64(burst)/rps*float64(time.Second)))
	}
	return &clientLimiter{
		limit:     rate.Limit(rps),
		burst:     burst,
		idle:      idle,
		now:       time.Now,
		clients:   make(map[string]*clientBucket),
		lastSweep: time.Now(),
	}
}

func (l *clientLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if now.Sub(l.lastSweep) >= l.idle {
		l.sweep(now)
	}
	b, ok := l.clients[key]
	if !ok {
		b = &clientBucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = b
	}
	b.seen = now
	return b.lim
}

// sweep drops buckets unused for at least l.idle. l.mu must be held.
func (l *clientLimiter) sweep(now time.Time) {
	for key, b := range l.clients {
		if now.Sub(b.seen) >= l.idle {
			delete(l.clients, key)
		}
	}
	l.lastSweep = now
}

// middleware rejects requests over the client's rate with 429 and a
// Retry-After header. It must run after middleware.RealIP.
func (l *clientLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		res := l.get(host).Reserve()
		if delay := res.Delay(); delay > 0 {
			res.Cancel()
			observability.Server().OnRateLimited(r.Context(), routePattern(r))
			retry := int(delay.Round(time.Second) / time.Second)
			if retry < 1 {
				retry = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			writeError(w, &errors.RateLimitedError{RetryAfter: retry})
			return
		}
		next.ServeHTTP(w, r)
	})
}
