// Package server provides the HTTP REST API for uploading resumes, fetching
// GitHub data and structuring them into a canonical resume.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/resume-structurer/internal/db"
	"github.com/jonathan/resume-structurer/internal/logger"
	"github.com/jonathan/resume-structurer/internal/parsers"
	"github.com/jonathan/resume-structurer/internal/server/middleware"
	"github.com/jonathan/resume-structurer/internal/server/ratelimit"
	"github.com/jonathan/resume-structurer/internal/structuring"
	"github.com/jonathan/resume-structurer/internal/types"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// GitHubFetcher loads a user's profile and ranked repositories.
type GitHubFetcher interface {
	FetchUserData(ctx context.Context, username string) (*types.GitHubData, error)
}

// Structurer runs the structuring pipeline.
type Structurer interface {
	Structure(ctx context.Context, req structuring.Request) (*types.StructuredOutput, error)
}

// Config holds server configuration
type Config struct {
	Port               int
	MaxUploadBytes     int64
	AllowedOrigins     []string
	RateLimitPerMinute int
	GitHubCacheTTL     time.Duration
}

// Deps are the collaborators the handlers call.
type Deps struct {
	Store      db.Store
	Parsers    *parsers.Registry
	GitHub     GitHubFetcher
	Structurer Structurer
	Now        func() time.Time
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       db.Store
	parsers     *parsers.Registry
	github      GitHubFetcher
	structurer  Structurer
	rateLimiter *ratelimit.Limiter
	now         func() time.Time
	maxUpload   int64
	cacheTTL    time.Duration
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Store == nil {
		return nil, errors.New("server requires a store")
	}
	if deps.Structurer == nil {
		return nil, errors.New("server requires a structurer")
	}
	if deps.GitHub == nil {
		return nil, errors.New("server requires a GitHub fetcher")
	}
	if deps.Parsers == nil {
		deps.Parsers = parsers.DefaultRegistry()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if cfg.GitHubCacheTTL <= 0 {
		cfg.GitHubCacheTTL = 24 * time.Hour
	}

	s := &Server{
		store:       deps.Store,
		parsers:     deps.Parsers,
		github:      deps.GitHub,
		structurer:  deps.Structurer,
		rateLimiter: ratelimit.NewLimiter(ratelimit.NewConfig(cfg.RateLimitPerMinute, os.Getenv("RATE_LIMIT_WHITELIST"), os.Getenv("RATE_LIMIT_BLACKLIST"))),
		now:         deps.Now,
		maxUpload:   cfg.MaxUploadBytes,
		cacheTTL:    cfg.GitHubCacheTTL,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /api/resume/upload", s.handleUpload)
	mux.HandleFunc("GET /api/resume/upload/{id}", s.handleGetUpload)
	mux.HandleFunc("POST /api/resume/structure", s.handleStructure)
	mux.HandleFunc("GET /api/resume", s.handleListResumes)
	mux.HandleFunc("GET /api/resume/{id}", s.handleGetResume)

	// /api/resume/{id}/export would conflict with /api/resume/upload/{id}
	// (both match /api/resume/upload/export), so exports live under /api/export.
	mux.HandleFunc("GET /api/export/{id}", s.handleExportResume)

	mux.HandleFunc("POST /api/github/fetch", s.handleGitHubFetch)

	var handler http.Handler = mux
	handler = s.withRateLimit(handler)
	handler = middleware.CORS(cfg.AllowedOrigins)(handler)
	handler = middleware.Logging(handler)
	handler = middleware.RequestID(handler)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second, // model calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", s.httpServer.Addr).Msg("server_starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	logger.Info().Msg("server_shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()
	logger.Info().Msg("server_stopped")
	return nil
}

// Close releases the rate limiter and the store.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	s.store.Close()
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientID identifies the caller by the IP in RemoteAddr.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	if info.RetryAfter > 0 {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds()+0.5)))
	}
	logger.Ctx(r.Context()).Warn().
		Str("client", clientID(r)).
		Str("path", r.URL.Path).
		Int("limit", info.Limit).
		Msg("rate_limit_exceeded")
	s.writeError(w, r, http.StatusTooManyRequests, codeRateLimited, "Rate limit exceeded. Please try again later.", "")
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"version":   Version,
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error().Err(err).Msg("json_encode_failed")
	}
}
