package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"strike/internal/cache"
	applog "strike/internal/log"
	"strike/internal/services"
)

const snapshotCacheKey = "current"

// Options tunes server behavior. Zero values fall back to defaults.
type Options struct {
	DefaultPageSize int
	SnapshotTTL     time.Duration
}

type Server struct {
	http.Server
	registry  *services.RegistryService
	snapshots *services.SnapshotService

	defaultPageSize int
	rateLimiter     *rateLimiter

	// Aggregation is recomputed on demand and cached briefly; any
	// mutation drops the cached snapshot.
	snapshotCache *cache.TTLCache[services.Snapshot]

	shutdownOnce sync.Once
}

// Simple in-memory rate limiter
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

// startCleanup runs periodic cleanup to remove stale client entries
func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries older than 10 minutes
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		if rl.stopCleanup != nil {
			close(rl.stopCleanup)
		}
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{
			lastRequest: now,
			requests:    1,
		}
		return true
	}

	// Reset counter if more than 1 minute has passed
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Allow up to 60 requests per minute
	client.requests++
	client.lastRequest = now

	return client.requests <= 60
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, registry *services.RegistryService, snapshots *services.SnapshotService, opts Options) *Server {
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 20
	}
	if opts.SnapshotTTL <= 0 {
		opts.SnapshotTTL = 30 * time.Second
	}

	mux := http.NewServeMux()

	// Outermost: base logger in context, then a per-request ID on top.
	withID := applog.RequestIDMiddleware(func(*http.Request) string { return generateRequestID() })
	logged := applog.Middleware(applog.New(applog.Config{Component: applog.ComponentHTTP}))(withID(mux))

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           logged,
			ReadHeaderTimeout: 5 * time.Second,
		},
		registry:        registry,
		snapshots:       snapshots,
		defaultPageSize: opts.DefaultPageSize,
		rateLimiter:     newRateLimiter(),
		snapshotCache:   cache.New[services.Snapshot](1, opts.SnapshotTTL),
	}
	s.snapshotCache.StartJanitor(time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("GET /api/clients", s.withSecurityHeaders(s.handleListClients))
	mux.HandleFunc("POST /api/clients", s.withSecurityHeaders(s.handleCreateClient))
	mux.HandleFunc("PUT /api/clients/{id}", s.withSecurityHeaders(s.handleUpdateClient))
	mux.HandleFunc("DELETE /api/clients/{id}", s.withSecurityHeaders(s.handleDeleteClient))

	mux.HandleFunc("POST /api/clients/{id}/payments", s.withSecurityHeaders(s.handleCreatePayment))
	mux.HandleFunc("PUT /api/payments/{id}", s.withSecurityHeaders(s.handleUpdatePayment))
	mux.HandleFunc("DELETE /api/payments/{id}", s.withSecurityHeaders(s.handleDeletePayment))

	mux.HandleFunc("GET /api/calendar", s.withSecurityHeaders(s.handleCalendar))
	mux.HandleFunc("GET /api/calendar/events", s.withSecurityHeaders(s.handleCalendarEvents))

	return s
}

// currentSnapshot returns the cached aggregation, recomputing it when the
// cache is cold.
func (s *Server) currentSnapshot(ctx context.Context) (services.Snapshot, error) {
	if snap, ok := s.snapshotCache.Get(snapshotCacheKey); ok {
		return snap, nil
	}
	snap, err := s.snapshots.Take(ctx)
	if err != nil {
		return services.Snapshot{}, err
	}
	s.snapshotCache.Set(snapshotCacheKey, snap)
	return snap, nil
}

// invalidateSnapshot drops the cached aggregation after a mutation.
func (s *Server) invalidateSnapshot() {
	s.snapshotCache.Delete(snapshotCacheKey)
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.snapshotCache.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract client IP (considering proxies)
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		ctx := r.Context()
		reqLog := applog.FromContext(ctx)

		reqLog.InfoContext(ctx, "Request started",
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		// Rate limit mutations only; reads are cheap and cached.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			reqLog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		applog.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds())
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
