package middleware

import (
	"log/slog"
	"net/http"

	"atelier/internal/httputil"
	"atelier/internal/metrics"
)

// Limiter decides whether a client may make another request
type Limiter interface {
	Allow(key string) bool
}

// RateLimit answers 429 once the client IP exceeds its budget.
func RateLimit(limiter Limiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := httputil.ClientIP(r)
			if !limiter.Allow(ip) {
				metrics.RateLimited.WithLabelValues(r.Method + " " + r.URL.Path).Inc()
				logger.Warn("rate limited", "addr", ip, "path", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				httputil.RespondError(w, http.StatusTooManyRequests, "too many requests, try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
