package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"atelier/internal/domain"
	"atelier/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer is the iss claim of locally signed admin tokens.
const Issuer = "atelier"

const adminRole = "admin"

// HMACTokens issues and verifies HS256 admin session tokens.
// Revocation is checked by ChainVerifier, not here.
type HMACTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// NewHMACTokens creates a token manager. An empty secret is replaced by a
// random one, which invalidates every session on restart.
func NewHMACTokens(secret string, ttl time.Duration, logger *slog.Logger) (*HMACTokens, error) {
	if ttl <= 0 {
		return nil, errors.New("session TTL must be positive")
	}

	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate token secret: %w", err)
		}
		logger.Warn("ADMIN_TOKEN_SECRET not set, sessions will not survive a restart")
	}

	return &HMACTokens{
		secret: key,
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}, nil
}

// Issue signs a new session token for subject
func (t *HMACTokens) Issue(subject string) (*models.SessionToken, error) {
	now := t.now()
	expiresAt := now.Add(t.ttl)

	claims := models.AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    Issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role: adminRole,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &models.SessionToken{Token: signed, ExpiresAt: expiresAt.UTC()}, nil
}

// VerifyToken validates signature, algorithm, issuer and expiry
func (t *HMACTokens) VerifyToken(tokenString string) (*models.Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.AdminClaims{},
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.AdminClaims)
	if !ok || claims.Subject == "" || claims.ID == "" || claims.Role != adminRole {
		return nil, domain.ErrUnauthorized
	}

	return &models.Session{
		Subject:   claims.Subject,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// TTL is the lifetime of issued tokens
func (t *HMACTokens) TTL() time.Duration { return t.ttl }

// Close is a no-op; HMACTokens holds no external resources
func (t *HMACTokens) Close() error { return nil }
