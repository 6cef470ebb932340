// Package server provides the HTTP REST API for the health tracker.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/jonathan/health-tracker/internal/analysis"
	"github.com/jonathan/health-tracker/internal/config"
	"github.com/jonathan/health-tracker/internal/nutrition"
	"github.com/jonathan/health-tracker/internal/server/middleware"
	"github.com/jonathan/health-tracker/internal/server/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	responder

	httpServer  *http.Server
	handler     http.Handler
	store       Store
	analyzer    *analysis.FallbackAnalyzer
	recommender *nutrition.Recommender
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	now         func() time.Time
	maxUpload   int64
}

// Config holds server configuration and dependencies. Store, Analyzer,
// JWTConfig and PasswordConfig are required.
type Config struct {
	Port           int
	Store          Store
	Analyzer       *analysis.FallbackAnalyzer
	Recommender    *nutrition.Recommender
	JWTConfig      *config.JWTConfig
	PasswordConfig *config.PasswordConfig
	RateLimit      *ratelimit.Config
	CORSOrigins    []string
	Logger         *zap.Logger
	// MaxUploadBytes caps POST /meals/analyze-image bodies. Defaults to 10 MiB.
	MaxUploadBytes int64
	Now            func() time.Time
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("server requires a store")
	}
	if cfg.Analyzer == nil {
		return nil, fmt.Errorf("server requires an analyzer")
	}
	if cfg.JWTConfig == nil || cfg.PasswordConfig == nil {
		return nil, fmt.Errorf("server requires JWT and password configuration")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Recommender == nil {
		cfg.Recommender = nutrition.NewRecommender(nutrition.DefaultRecommenderConfig())
	}
	if cfg.RateLimit == nil {
		cfg.RateLimit = ratelimit.LoadConfig()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	s := &Server{
		responder:   responder{logger: cfg.Logger},
		store:       cfg.Store,
		analyzer:    cfg.Analyzer,
		recommender: cfg.Recommender,
		now:         cfg.Now,
		maxUpload:   cfg.MaxUploadBytes,
	}

	s.rateLimiter = ratelimit.NewLimiter(cfg.RateLimit)
	s.userService = NewUserService(cfg.Store, cfg.PasswordConfig)
	s.jwtService = NewJWTService(cfg.JWTConfig)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService, cfg.Logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.Handle("PUT /auth/password", s.authed(s.handleUpdatePassword))

	mux.Handle("GET /me", s.authed(s.handleMe))
	mux.Handle("GET /me/profile", s.authed(s.handleGetProfile))
	mux.Handle("PUT /me/profile", s.authed(s.handlePutProfile))

	mux.Handle("GET /meals", s.authed(s.handleListMeals))
	mux.Handle("POST /meals", s.authed(s.handleCreateMeal))
	mux.Handle("POST /meals/estimate", s.authed(s.handleEstimateMeal))
	mux.Handle("POST /meals/analyze-image", s.authed(s.handleAnalyzeImage))
	mux.Handle("GET /meals/{id}", s.authed(s.handleGetMeal))
	mux.Handle("PUT /meals/{id}", s.authed(s.handleUpdateMeal))
	mux.Handle("DELETE /meals/{id}", s.authed(s.handleDeleteMeal))

	mux.Handle("GET /weights", s.authed(s.handleListWeights))
	mux.Handle("POST /weights", s.authed(s.handleCreateWeight))
	mux.Handle("DELETE /weights/{id}", s.authed(s.handleDeleteWeight))

	mux.Handle("GET /goals", s.authed(s.handleListGoals))
	mux.Handle("POST /goals", s.authed(s.handleCreateGoal))
	mux.Handle("GET /goals/{id}", s.authed(s.handleGetGoal))
	mux.Handle("PUT /goals/{id}", s.authed(s.handleUpdateGoal))
	mux.Handle("DELETE /goals/{id}", s.authed(s.handleDeleteGoal))

	mux.Handle("GET /recommendations", s.authed(s.handleRecommendation))
	mux.Handle("POST /recommendations/preview", s.authed(s.handlePreviewRecommendation))

	mux.Handle("GET /dashboard", s.authed(s.handleDashboard))

	// CORS runs first so rejections such as 429 still carry CORS headers.
	s.handler = s.withCORS(s.withLogging(s.withRateLimit(mux)), cfg.CORSOrigins)
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second, // image analysis may call out to an LLM
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
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
		s.Close()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.Close()
	s.logger.Info("server stopped")
	return nil
}

// Close stops background work owned by the server. The store is left open.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// authed wraps h with bearer token authentication.
func (s *Server) authed(h http.HandlerFunc) http.Handler {
	return middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(h)
}

// withCORS applies the configured CORS policy and answers preflight requests.
func (s *Server) withCORS(next http.Handler, origins []string) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		MaxAge:         300,
	}).Handler(next)
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, clientID, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += n
	return n, err
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Int("bytes", rec.bytes),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		}
		if rec.status >= http.StatusInternalServerError {
			s.logger.Warn("request", fields...)
			return
		}
		s.logger.Info("request", fields...)
	})
}

// handleHealth reports whether the database is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "unavailable",
			"database": "down",
		})
		return
	}
	imageAnalysis := "heuristic"
	if s.analyzer.HasImageBackend() {
		imageAnalysis = "backend"
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":         "ok",
		"database":       "up",
		"image_analysis": imageAnalysis,
	})
}

// handleUpdatePassword handles password update requests.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	s.authHandler.UpdatePasswordWithUserID(w, r, userID)
}

// requireUser returns the authenticated user ID, writing a 401 when absent.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}
	return userID, true
}

// pathID parses the {id} path value.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "must be a UUID"}
	}
	return id, nil
}

// queryLimit parses the limit query parameter; zero means unset.
func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > 1000 {
		return 0, &ErrValidation{Field: "limit", Message: "must be between 1 and 1000"}
	}
	return limit, nil
}

// extractClientID keys rate limiting on the peer IP. Forwarded headers are
// ignored, so behind a proxy every client shares the proxy's bucket.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, clientID string, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds())
		if seconds < 1 {
			seconds = 1
		}
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Warn("rate limit exceeded",
		zap.String("client", clientID),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
