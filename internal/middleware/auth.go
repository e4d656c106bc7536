package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"atelier/internal/auth"
	"atelier/internal/httputil"
)

// RequireAdmin rejects requests without a valid bearer token and stores the
// session in the request context for handlers.
func RequireAdmin(verifier auth.TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			session, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("admin token rejected",
					"path", r.URL.Path,
					"request_id", httputil.GetRequestID(r),
				)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, httputil.WithSession(r, session))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
