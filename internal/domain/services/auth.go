package services

import (
	"context"

	"atelier/internal/domain/models"
)

// AuthService exchanges the shared admin secret for a session token
type AuthService interface {
	// Login checks password and issues an expiring token.
	// clientKey identifies the caller for rate limiting.
	Login(ctx context.Context, password, clientKey string) (*models.SessionToken, error)

	// Logout revokes the session's token until it expires
	Logout(ctx context.Context, session *models.Session) error
}
