package httpapi

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/esslidev/sga-advanced-system/internal/obs"
)

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

type requestIDKey struct{}

// RequestID assigns each request a UUID, exposed in the X-Request-Id header
// and the request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the id assigned by RequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// LoggingJSON emits one structured line per request.
func LoggingJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, code: 200}
		start := time.Now()
		next.ServeHTTP(sw, r)
		obs.LogRequest(map[string]any{
			"request_id":  RequestIDFromContext(r.Context()),
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      sw.code,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	})
}

// SecurityHeaders sets standard hardening headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "0")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// CORS allows the local frontend origins. The frontend port comes from
// configuration; 5173 stays allowed for the Vite dev server.
func CORS(next http.Handler, frontendPort string) http.Handler {
	allowed := map[string]bool{
		"http://localhost:5173": true,
	}
	if frontendPort != "" {
		allowed["http://localhost:"+frontendPort] = true
		allowed["http://127.0.0.1:"+frontendPort] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization,apikey,language")
		w.Header().Set("Access-Control-Max-Age", "600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// MaxBodyBytes limits request body size.
func MaxBodyBytes(next http.Handler, maxBytes int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		next.ServeHTTP(w, r)
	})
}

const (
	limiterTTL          = 5 * time.Minute
	limiterReapInterval = time.Minute
)

type limiterBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// limiterPool keeps one token bucket per client IP. Stale buckets are reaped
// inline while the lock is held, so no background goroutine is needed.
type limiterPool struct {
	mu       sync.Mutex
	buckets  map[string]*limiterBucket
	perSec   rate.Limit
	burst    int
	lastReap time.Time
}

func newLimiterPool(perSecond float64, burst int) *limiterPool {
	return &limiterPool{
		buckets: make(map[string]*limiterBucket),
		perSec:  rate.Limit(perSecond),
		burst:   burst,
	}
}

func (p *limiterPool) get(ip string, now time.Time) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if now.Sub(p.lastReap) > limiterReapInterval {
		for k, b := range p.buckets {
			if now.Sub(b.seen) > limiterTTL {
				delete(p.buckets, k)
			}
		}
		p.lastReap = now
	}
	b, ok := p.buckets[ip]
	if !ok {
		b = &limiterBucket{lim: rate.NewLimiter(p.perSec, p.burst)}
		p.buckets[ip] = b
	}
	b.seen = now
	return b.lim
}

// RateLimit applies a token bucket per client IP.
func RateLimit(next http.Handler, perSecond float64, burst int) http.Handler {
	pool := newLimiterPool(perSecond, burst)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if ip == "" {
			ip = "unknown"
		}
		if !pool.get(ip, time.Now()).Allow() {
			w.Header().Set("Retry-After", strconv.Itoa(1))
			writeJSON(w, http.StatusTooManyRequests, envelope{Response: &responseMeta{
				StatusCode: http.StatusTooManyRequests,
				Title:      "Too Many Requests",
				Message:    "rate limit exceeded",
			}})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
