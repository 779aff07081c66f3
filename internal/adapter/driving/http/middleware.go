package httphandler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// ApplyMiddleware wraps handler with the shared middleware chain, outermost
// first: request ID, real client IP, request logging, panic recovery and
// response compression.
func ApplyMiddleware(handler http.Handler, logger *slog.Logger) http.Handler {
	// Recovery innermost so panics are caught before logging.
	wrapped := compressMiddleware(handler)
	wrapped = recoveryMiddleware(logger, wrapped)
	wrapped = loggingMiddleware(logger, wrapped)
	wrapped = middleware.RealIP(wrapped)
	wrapped = middleware.RequestID(wrapped)
	return wrapped
}

// loggingMiddleware logs each HTTP request with method, path, status, duration
// and the request ID assigned by middleware.RequestID.
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// recoveryMiddleware recovers from panics in HTTP handlers, logs the error,
// and returns a 500 response.
func recoveryMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				logger.Error("panic recovered",
					"panic", v,
					"path", r.URL.Path,
					"request_id", middleware.GetReqID(r.Context()),
				)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// compressMiddleware gzips text responses. Websocket upgrades bypass it so
// the connection can be hijacked untouched.
func compressMiddleware(next http.Handler) http.Handler {
	compressed := middleware.Compress(5, "text/html", "text/css", "text/javascript", "application/javascript", "application/json", "image/svg+xml")(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
			next.ServeHTTP(w, r)
			return
		}
		compressed.ServeHTTP(w, r)
	})
}
