package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"atelier/internal/httputil"
	"atelier/internal/metrics"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request id in both directions
const RequestIDHeader = "X-Request-ID"

// logWriter captures the status code and bytes written to the response.
type logWriter struct {
	http.ResponseWriter
	code, bytes int
}

var _ http.ResponseWriter = (*logWriter)(nil)

// Write implements http.ResponseWriter.
func (w *logWriter) Write(p []byte) (int, error) {
	written, err := w.ResponseWriter.Write(p)
	w.bytes += written
	return written, err
}

// WriteHeader is generally only called for non-200 responses, so code defaults to 200.
func (w *logWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *logWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Logging assigns a request id, logs each response, and records HTTP metrics
// labeled by the matched route pattern.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			id := r.Header.Get(RequestIDHeader)
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			r = httputil.WithRequestID(r, id)

			writer := &logWriter{code: http.StatusOK, ResponseWriter: w}
			next.ServeHTTP(writer, r)
			elapsed := time.Since(start)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(writer.code)).Inc()
			metrics.HTTPDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())

			level := slog.LevelDebug
			if writer.code >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			logger.Log(r.Context(), level, "request",
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
				"route", route,
				"status", fmt.Sprintf("%d %s", writer.code, http.StatusText(writer.code)),
				"bytes", humanize.Bytes(uint64(writer.bytes)),
				"duration", elapsed,
				"addr", httputil.ClientIP(r),
			)
		})
	}
}
