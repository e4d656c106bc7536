package auth

import "atelier/internal/domain/models"

// TokenVerifier defines the interface for bearer token verification.
// This abstraction keeps the middleware agnostic to where tokens come from.
type TokenVerifier interface {
	// VerifyToken validates a token string and returns the session it grants.
	// Returns domain.ErrUnauthorized if the token is invalid, expired, revoked, or has an invalid signature.
	VerifyToken(tokenString string) (*models.Session, error)

	// Close releases any resources held by the verifier (e.g., HTTP connections for JWKS).
	Close() error
}
