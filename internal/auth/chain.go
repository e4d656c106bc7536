package auth

import (
	"errors"
	"log/slog"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
)

// ChainVerifier accepts a token if any of its verifiers does and the token
// has not been revoked.
type ChainVerifier struct {
	verifiers   []TokenVerifier
	revocations *Revocations
	logger      *slog.Logger
}

// NewChainVerifier creates a verifier that tries each of verifiers in order
func NewChainVerifier(revocations *Revocations, logger *slog.Logger, verifiers ...TokenVerifier) *ChainVerifier {
	return &ChainVerifier{
		verifiers:   verifiers,
		revocations: revocations,
		logger:      logger,
	}
}

// Add appends a verifier to the chain
func (c *ChainVerifier) Add(v TokenVerifier) {
	c.verifiers = append(c.verifiers, v)
}

// VerifyToken tries each verifier in order, then checks the denylist
func (c *ChainVerifier) VerifyToken(tokenString string) (*models.Session, error) {
	for _, v := range c.verifiers {
		session, err := v.VerifyToken(tokenString)
		if err == nil {
			if session.TokenID == "" || c.revocations.Revoked(session.TokenID) {
				c.logger.Debug("revoked token presented", "subject", session.Subject, "jti", session.TokenID)
				return nil, domain.ErrUnauthorized
			}
			return session, nil
		}
		if !errors.Is(err, domain.ErrUnauthorized) {
			return nil, err
		}
	}
	return nil, domain.ErrUnauthorized
}

// Close closes every verifier and returns the first error
func (c *ChainVerifier) Close() error {
	var first error
	for _, v := range c.verifiers {
		if err := v.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
