/* middleware.go
 * Contains the HTTP middleware: request logging, per client rate limiting and bearer token authentication
 * Authors: Zachary Bower
 */

package web

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"confidence-pool/api/store"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const requestIDHeader = "X-Request-ID"

type contextKey int

const participantKey contextKey = iota

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogger tags each request with an id, attaches a logger carrying it to the request context and logs the
// request once it completes
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		logger := log.With().Str("request_id", requestID).Logger()
		r = r.WithContext(logger.WithContext(r.Context()))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request completed")
	})
}

const defaultRateIdle = 10 * time.Minute

// clientLimiter holds a token bucket per client address. Buckets of clients that have been idle longer than idle
// are dropped, checked at most once per idle period
type clientLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	idle      time.Duration
	clock     clockwork.Clock
	lastSweep time.Time
	clients   map[string]*clientBucket
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiter(perSecond float64, burst int, idle time.Duration, clock clockwork.Clock) *clientLimiter {
	if burst < 1 {
		burst = 1
	}
	if idle <= 0 {
		idle = defaultRateIdle
	}
	return &clientLimiter{
		limit:     rate.Limit(perSecond),
		burst:     burst,
		idle:      idle,
		clock:     clock,
		lastSweep: clock.Now(),
		clients:   make(map[string]*clientBucket),
	}
}

// allow reports whether the client may make another request now
func (c *clientLimiter) allow(client string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if now.Sub(c.lastSweep) >= c.idle {
		c.sweep(now)
	}

	bucket, ok := c.clients[client]
	if !ok {
		bucket = &clientBucket{limiter: rate.NewLimiter(c.limit, c.burst)}
		c.clients[client] = bucket
	}
	bucket.lastSeen = now
	return bucket.limiter.AllowN(now, 1)
}

// sweep drops the buckets of idle clients. Callers hold mu
func (c *clientLimiter) sweep(now time.Time) {
	for client, bucket := range c.clients {
		if now.Sub(bucket.lastSeen) >= c.idle {
			delete(c.clients, client)
		}
	}
	c.lastSweep = now
}

// size returns the number of clients being tracked
func (c *clientLimiter) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.clients)
}

// rateLimit rejects requests from clients that are over their rate with 429
func (s *Server) rateLimit(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := clientIP(r, s.cfg.TrustProxy)
		if !s.limiter.allow(client) {
			log.Warn().Str("client", client).Str("path", r.URL.Path).Msg("rate limit exceeded")
			writeJSON(w, http.StatusTooManyRequests, ErrorResponse{Message: "too many requests"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client address. Proxy headers are only read when trustProxy is set: X-Real-IP first, then
// the last X-Forwarded-For entry, which is the one the proxy appended. Otherwise the connection address is used
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			hops := strings.Split(xff, ",")
			if last := strings.TrimSpace(hops[len(hops)-1]); last != "" {
				return last
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// authenticate resolves the bearer token to a participant and stores it on the request context
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
		participant, err := s.api.Authenticate(r.Context(), token)
		if err != nil {
			writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), participantKey, participant)
		logger := zerolog.Ctx(ctx).With().Str("participant", participant.ID.Hex()).Logger()
		next.ServeHTTP(w, r.WithContext(logger.WithContext(ctx)))
	})
}

// caller returns the authenticated participant of a request
func caller(r *http.Request) store.Participant {
	participant, _ := r.Context().Value(participantKey).(store.Participant)
	return participant
}
