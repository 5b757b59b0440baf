// Package middleware provides HTTP middleware for request IDs, logging, and
// panic recovery.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	derrors "git.home.luguber.info/inful/mailposture/internal/errors"
	"git.home.luguber.info/inful/mailposture/internal/logfields"
	"git.home.luguber.info/inful/mailposture/internal/metrics"
)

type ctxKey int

const requestIDKey ctxKey = iota

// RequestIDFromContext returns the request ID assigned by the chain, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Chain returns a middleware wrapper applying request ID assignment, logging,
// and panic recovery around a handler.
func Chain(logger *slog.Logger, adapter *derrors.HTTPErrorAdapter, recorder metrics.Recorder) func(http.Handler) http.Handler {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return func(next http.Handler) http.Handler {
		return requestIDMiddleware(loggingMiddleware(logger, recorder, panicRecoveryMiddleware(logger, adapter, next)))
	}
}

// requestIDMiddleware assigns each request a UUID, exposed via context and
// the X-Request-ID response header. An incoming X-Request-ID is honored so
// IDs follow requests across proxies.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// loggingMiddleware logs method, path, status, duration, user agent, and
// remote addr, and feeds the request histogram.
func loggingMiddleware(logger *slog.Logger, recorder metrics.Recorder, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start)

		recorder.ObserveRequestDuration(routeLabel(r.URL.Path), wrapped.statusCode, duration)
		logger.Info("HTTP request",
			logfields.RequestID(RequestIDFromContext(r.Context())),
			logfields.Method(r.Method),
			logfields.Path(r.URL.Path),
			logfields.Status(wrapped.statusCode),
			logfields.DurationMS(float64(duration.Microseconds())/1000),
			logfields.UserAgent(r.UserAgent()),
			logfields.RemoteAddr(r.RemoteAddr))
	})
}

// panicRecoveryMiddleware recovers from handler panics and writes a
// structured error response via the HTTPErrorAdapter.
func panicRecoveryMiddleware(logger *slog.Logger, adapter *derrors.HTTPErrorAdapter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("HTTP handler panic",
					"panic", rec,
					logfields.Path(r.URL.Path),
					logfields.Method(r.Method),
					logfields.RemoteAddr(r.RemoteAddr))

				panicErr := derrors.InternalError("internal server error").
					WithContext("path", r.URL.Path).
					Build()
				adapter.WriteErrorResponse(w, panicErr)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// routeLabel collapses per-domain paths into one metric label so cardinality
// stays bounded.
func routeLabel(path string) string {
	if strings.HasPrefix(path, "/domain/") {
		return "/domain/{domain}"
	}
	if strings.HasPrefix(path, "/static/") {
		return "/static/"
	}
	return path
}

// responseWriter captures status codes for logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
