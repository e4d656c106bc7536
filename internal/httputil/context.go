package httputil

import (
	"context"
	"net"
	"net/http"

	"atelier/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	sessionKey   contextKey = "session"
	requestIDKey contextKey = "requestID"
)

// WithSession adds the authenticated session to the request context
func WithSession(r *http.Request, session *models.Session) *http.Request {
	ctx := context.WithValue(r.Context(), sessionKey, session)
	return r.WithContext(ctx)
}

// GetSession retrieves the session from context, returns nil if not found
func GetSession(r *http.Request) *models.Session {
	session, _ := r.Context().Value(sessionKey).(*models.Session)
	return session
}

// WithRequestID adds a request ID to the request context
func WithRequestID(r *http.Request, id string) *http.Request {
	ctx := context.WithValue(r.Context(), requestIDKey, id)
	return r.WithContext(ctx)
}

// GetRequestID retrieves the request ID from context, returns empty string if not found
func GetRequestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey).(string)
	return id
}

// ClientIP returns the caller address used for rate limiting.
// Only the socket peer is used; forwarded headers are applied upstream by
// middleware.RealIP when the peer is a trusted proxy.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
