package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/grant-assist/internal/config"
	"github.com/jonathan/grant-assist/internal/db"
	"github.com/jonathan/grant-assist/internal/engine"
	"github.com/jonathan/grant-assist/internal/server/middleware"
	"github.com/jonathan/grant-assist/internal/server/ratelimit"
	"github.com/jonathan/grant-assist/internal/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Store persists templates, drafts and score reports. *db.DB implements it.
type Store interface {
	SaveTemplate(ctx context.Context, tmpl *types.Template) (uuid.UUID, error)
	GetTemplate(ctx context.Context, id uuid.UUID) (*types.Template, error)
	SaveDraft(ctx context.Context, draft *types.Draft) (uuid.UUID, error)
	GetDraft(ctx context.Context, id uuid.UUID) (*types.Draft, error)
	SaveScoreReport(ctx context.Context, draftID uuid.UUID, report *types.ScoreReport) (*db.StoredReport, error)
	GetLatestScoreReport(ctx context.Context, draftID uuid.UUID) (*db.StoredReport, error)
	ListScoreReports(ctx context.Context, draftID uuid.UUID, limit int) ([]db.StoredReport, error)
}

// ReportCache memoizes score reports. *cache.ReportCache implements it.
type ReportCache interface {
	Get(ctx context.Context, key string) (*types.ScoreReport, error)
	Put(ctx context.Context, key string, report *types.ScoreReport) error
}

// GeneratorFactory builds a field generator primed with the grant description
// supplied by an auto-complete request.
type GeneratorFactory func(grantContext string) engine.FieldGenerator

const maxBodyBytes = 5 << 20

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	handler        http.Handler
	engine         *engine.Engine
	store          Store
	cache          ReportCache
	generators     GeneratorFactory
	genTimeout     time.Duration
	concurrency    int
	logger         *zap.Logger
	rateLimiter    *ratelimit.Limiter
	allowedOrigins map[string]bool
	validate       *validator.Validate
}

// Option configures a Server.
type Option func(*Server)

// WithStore enables the draft endpoints.
func WithStore(store Store) Option {
	return func(s *Server) { s.store = store }
}

// WithCache enables report caching.
func WithCache(c ReportCache) Option {
	return func(s *Server) { s.cache = c }
}

// WithGenerators enables auto-completion.
func WithGenerators(f GeneratorFactory) Option {
	return func(s *Server) { s.generators = f }
}

// WithGenerationTimeout bounds how long one auto-complete request may wait on the model.
func WithGenerationTimeout(d time.Duration) Option {
	return func(s *Server) { s.genTimeout = d }
}

// WithLogger sets the request and error logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithConcurrency bounds concurrent field generation per auto-complete request.
func WithConcurrency(n int) Option {
	return func(s *Server) { s.concurrency = n }
}

// New creates a new server instance
func New(cfg config.ServerConfig, opts ...Option) *Server {
	s := &Server{
		logger:         zap.NewNop(),
		allowedOrigins: make(map[string]bool),
		validate:       newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = engine.New(engine.WithConcurrency(s.concurrency))
	for _, origin := range cfg.AllowedOrigins {
		s.allowedOrigins[origin] = true
	}
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.NewConfig(cfg.RateLimit, cfg.RateBurst, ""))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Stateless engine endpoints
	mux.HandleFunc("POST /v1/validate", s.handleValidate)
	mux.HandleFunc("POST /v1/score-content", s.handleScoreContent)
	mux.HandleFunc("POST /v1/recommend", s.handleRecommend)
	mux.HandleFunc("POST /v1/autocomplete", s.handleAutoComplete)

	// Stored templates and drafts
	mux.HandleFunc("POST /v1/templates", s.handleSaveTemplate)
	mux.HandleFunc("GET /v1/templates/{id}", s.handleGetTemplate)
	mux.HandleFunc("POST /v1/drafts", s.handleSaveDraft)
	mux.HandleFunc("GET /v1/drafts/{id}", s.handleGetDraft)
	mux.HandleFunc("POST /v1/drafts/{id}/evaluate", s.handleEvaluateDraft)
	mux.HandleFunc("GET /v1/drafts/{id}/report", s.handleGetReport)
	mux.HandleFunc("GET /v1/drafts/{id}/reports", s.handleListReports)

	s.handler = middleware.RequestID(s.withLogging(s.withRateLimit(s.withCORS(mux))))

	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 60 * time.Second
	}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves requests until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.rateLimiter.Stop()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case len(s.allowedOrigins) == 0:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case s.allowedOrigins[origin]:
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+middleware.HeaderRequestID)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(extractClientID(r), r.URL.Path, r.Method)
		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		}
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.Info("request completed",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"store":        s.store != nil,
		"cache":        s.cache != nil,
		"autocomplete": s.generators != nil,
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleError maps err to a status and writes it. Server-side failures are
// logged and reported without detail.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	if status == http.StatusInternalServerError {
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// extractClientID extracts the client identifier from the request.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":   "rate_limit_exceeded",
		"message": "Rate limit exceeded. Please try again later.",
		"limit":   info.Limit,
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds() + 0.999)
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Warn("rate limit exceeded",
		zap.String("client", extractClientID(r)),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// newValidator reports request fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON reads a JSON request body into v and runs struct validation.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON request body", Cause: err}
	}
	if err := s.validate.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &ErrValidation{
				Field:   fe.Field(),
				Message: fmt.Sprintf("failed %q check", fe.Tag()),
				Cause:   err,
			}
		}
		return &ErrValidation{Field: "body", Message: err.Error(), Cause: err}
	}
	return nil
}
