// Package server exposes the funnel over HTTP: the scheduled reminder
// trigger, quiz intake, health probes and metrics.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strings"
	"time"

	"lead-funnel/internal/common/errors"
	"lead-funnel/internal/common/logger"
	"lead-funnel/internal/common/observability"
	"lead-funnel/internal/models"
	quizsubmit "lead-funnel/internal/workers/intake/quiz-submit"
)

const (
	CronPath    = "/api/cron/call-reminders"
	SubmitPath  = "/api/quiz-submit"
	HealthPath  = "/health"
	ReadyPath   = "/ready"
	MetricsPath = "/metrics"

	maxBodyBytes = 64 << 10
)

type Sweeper interface {
	RunSweep(ctx context.Context) *models.SweepSummary
}

type Submitter interface {
	Submit(ctx context.Context, clientIP string, body []byte) (*quizsubmit.Result, error)
}

// Pinger is a dependency checked by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain health check to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type Options struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	SweepTimeout    time.Duration
	CronSecret      string
	MetricsPath     string
	MetricsDisabled bool
	Sweeper         Sweeper
	Intake          Submitter
	Checks          map[string]Pinger
	Logger          logger.Logger
}

type Server struct {
	opts   Options
	logger logger.Logger
	http   *http.Server
}

func New(opts Options) *Server {
	if opts.Address == "" {
		opts.Address = ":8080"
	}
	if opts.SweepTimeout <= 0 {
		opts.SweepTimeout = 5 * time.Minute
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = MetricsPath
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}

	s := &Server{
		opts:   opts,
		logger: opts.Logger.WithFields(map[string]interface{}{"component": "http"}),
	}
	s.http = &http.Server{
		Addr:         opts.Address,
		Handler:      s.Handler(),
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+CronPath, s.handleCron)
	mux.HandleFunc("POST "+CronPath, s.handleCron)
	mux.HandleFunc("POST "+SubmitPath, s.handleSubmit)
	mux.HandleFunc("GET "+HealthPath, s.handleHealth)
	mux.HandleFunc("GET "+ReadyPath, s.handleReady)
	if !s.opts.MetricsDisabled {
		mux.Handle("GET "+s.opts.MetricsPath, observability.Handler())
	}
	return s.logRequests(mux)
}

func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP server listening", map[string]interface{}{"address": s.opts.Address})
	if err := s.http.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// ==========================
// Handlers
// ==========================

func (s *Server) handleCron(w http.ResponseWriter, r *http.Request) {
	if s.opts.CronSecret == "" {
		s.logger.Error("CRON_SECRET not configured", map[string]interface{}{
			"errorCode": string(errors.ErrCodeConfigurationMissing),
		})
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Cron not configured"})
		return
	}

	if !secretMatches(cronSecret(r), s.opts.CronSecret) {
		stdErr := errors.NewUnauthorizedError("cron secret mismatch")
		s.logger.Warn("Invalid cron secret", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
			"ip":        ClientIP(r),
		})
		writeJSON(w, errors.HTTPStatus(stdErr.Code), map[string]string{"error": stdErr.Message})
		return
	}

	// The sweep outlives a dropped scheduler connection.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), s.opts.SweepTimeout)
	defer cancel()

	summary := s.opts.Sweeper.RunSweep(ctx)
	writeJSON(w, http.StatusOK, summary)
}

// cronSecret reads x-cron-secret first, then an Authorization bearer value.
func cronSecret(r *http.Request) string {
	if secret := r.Header.Get("x-cron-secret"); secret != "" {
		return secret
	}
	return strings.Replace(r.Header.Get("Authorization"), "Bearer ", "", 1)
}

func secretMatches(provided, expected string) bool {
	return subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) == 1
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	result, err := s.opts.Intake.Submit(r.Context(), ClientIP(r), body)
	if err != nil {
		s.writeSubmitError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"outcome": result.Outcome.Tag,
	})
}

func (s *Server) writeSubmitError(w http.ResponseWriter, err error) {
	if stderrors.Is(err, quizsubmit.ErrAlreadyScheduled) {
		writeJSON(w, http.StatusConflict, map[string]string{
			"error":   "call_already_scheduled",
			"message": quizsubmit.AlreadyScheduledMessage,
		})
		return
	}

	stdErr := errors.AsStandardError(err)
	status := errors.HTTPStatus(stdErr.Code)
	message := stdErr.Message
	if status >= http.StatusInternalServerError {
		s.logger.Error("Error saving quiz submission", map[string]interface{}{
			"error":     err,
			"errorCode": string(stdErr.Code),
		})
		message = "Failed to save submission"
	}
	writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := make(map[string]string, len(s.opts.Checks))
	status := http.StatusOK
	for name, dep := range s.opts.Checks {
		if err := dep.Ping(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	writeJSON(w, status, map[string]interface{}{
		"status": state,
		"checks": checks,
		"time":   time.Now().Format(time.RFC3339),
	})
}

// ==========================
// Helpers
// ==========================

// ClientIP is the first x-forwarded-for entry, then x-real-ip, then "unknown".
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("x-forwarded-for"); forwarded != "" {
		if first := strings.TrimSpace(strings.Split(forwarded, ",")[0]); first != "" {
			return first
		}
	}
	if real := r.Header.Get("x-real-ip"); real != "" {
		return real
	}
	return "unknown"
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		fields := map[string]interface{}{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"durationMs": time.Since(start).Milliseconds(),
		}
		if r.URL.Path == HealthPath || r.URL.Path == s.opts.MetricsPath {
			s.logger.Debug("HTTP request", fields)
			return
		}
		s.logger.Info("HTTP request", fields)
	})
}
