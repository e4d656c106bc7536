package auth

import (
	"context"
	"log/slog"
	"time"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/services"
	"atelier/internal/metrics"
)

// PasswordChecker verifies the admin secret
type PasswordChecker interface {
	Check(password string) bool
}

// TokenIssuer mints session tokens
type TokenIssuer interface {
	Issue(subject string) (*models.SessionToken, error)
}

// Revoker denies a token id until it expires
type Revoker interface {
	Revoke(tokenID string, expiresAt time.Time)
}

// Limiter rate limits login attempts per client
type Limiter interface {
	Allow(key string) bool
}

// LoginService implements services.AuthService for the single admin account.
type LoginService struct {
	passwords PasswordChecker
	tokens    TokenIssuer
	revoker   Revoker
	limiter   Limiter
	logger    *slog.Logger
}

// NewLoginService creates a new login service
func NewLoginService(passwords PasswordChecker, tokens TokenIssuer, revoker Revoker, limiter Limiter, logger *slog.Logger) services.AuthService {
	return &LoginService{
		passwords: passwords,
		tokens:    tokens,
		revoker:   revoker,
		limiter:   limiter,
		logger:    logger,
	}
}

// Login exchanges the admin password for a session token
func (s *LoginService) Login(ctx context.Context, password, clientKey string) (*models.SessionToken, error) {
	if !s.limiter.Allow(clientKey) {
		metrics.Logins.WithLabelValues(metrics.ResultRateLimited).Inc()
		s.logger.Warn("login rate limited", "client", clientKey)
		return nil, domain.Errorf(domain.ErrRateLimited, "too many login attempts, try again later")
	}

	if password == "" || !s.passwords.Check(password) {
		metrics.Logins.WithLabelValues(metrics.ResultDenied).Inc()
		s.logger.Warn("login failed", "client", clientKey)
		return nil, domain.Errorf(domain.ErrUnauthorized, "invalid password")
	}

	token, err := s.tokens.Issue(models.AdminSubject)
	if err != nil {
		metrics.Logins.WithLabelValues(metrics.ResultError).Inc()
		return nil, err
	}

	metrics.Logins.WithLabelValues(metrics.ResultOK).Inc()
	s.logger.Info("admin logged in", "client", clientKey, "expires_at", token.ExpiresAt)

	return token, nil
}

// Logout revokes the session's token, whichever verifier accepted it
func (s *LoginService) Logout(ctx context.Context, session *models.Session) error {
	if session == nil {
		return domain.ErrUnauthorized
	}

	s.revoker.Revoke(session.TokenID, session.ExpiresAt)
	s.logger.Info("admin logged out", "subject", session.Subject)
	return nil
}
