package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"atelier/internal/domain"
	"atelier/internal/domain/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// JWKSOptions restricts which externally issued tokens grant admin access.
type JWKSOptions struct {
	Issuer   string   // required iss claim
	Audience string   // required aud claim, if set
	Subjects []string // allowed sub claims; at least one is required
	// MaxLifetime rejects tokens that stay valid for longer than this, so a
	// revocation held for the same period always outlives the token.
	MaxLifetime time.Duration
}

func (o JWKSOptions) validate() error {
	if o.Issuer == "" {
		return errors.New("JWKS issuer cannot be empty")
	}
	if len(o.Subjects) == 0 {
		return errors.New("JWKS verifier needs at least one allowed subject")
	}
	if o.MaxLifetime <= 0 {
		return errors.New("JWKS max token lifetime must be positive")
	}
	return nil
}

// JWKSVerifier accepts tokens from an external identity provider.
type JWKSVerifier struct {
	keyFunc jwt.Keyfunc
	opts    JWKSOptions
	now     func() time.Time
	logger  *slog.Logger
}

// NewJWKSVerifier creates a verifier that fetches public keys from a JWKS endpoint.
// The JWKS keys are cached and automatically refreshed based on HTTP cache headers.
func NewJWKSVerifier(ctx context.Context, jwksURL string, opts JWKSOptions, logger *slog.Logger) (*JWKSVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWKS verifier initialized", "jwks_url", jwksURL, "issuer", opts.Issuer, "subjects", len(opts.Subjects))

	return newJWKSVerifier(jwks.Keyfunc, opts, logger), nil
}

func newJWKSVerifier(keyFunc jwt.Keyfunc, opts JWKSOptions, logger *slog.Logger) *JWKSVerifier {
	return &JWKSVerifier{
		keyFunc: keyFunc,
		opts:    opts,
		now:     time.Now,
		logger:  logger,
	}
}

// VerifyToken validates an externally issued token
func (v *JWKSVerifier) VerifyToken(tokenString string) (*models.Session, error) {
	parserOpts := []jwt.ParserOption{
		// Prevent algorithm confusion attacks - allow only RS256 or ES256
		jwt.WithValidMethods([]string{"RS256", "ES256"}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(v.opts.Issuer),
		jwt.WithTimeFunc(v.now),
	}
	if v.opts.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(v.opts.Audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, v.keyFunc, parserOpts...)
	if err != nil || !token.Valid {
		v.logger.Debug("external token rejected", "error", err)
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if !slices.Contains(v.opts.Subjects, claims.Subject) {
		v.logger.Warn("external token for unknown subject", "subject", claims.Subject)
		return nil, domain.ErrUnauthorized
	}

	expiresAt := claims.ExpiresAt.Time
	if expiresAt.Sub(v.now()) > v.opts.MaxLifetime {
		v.logger.Warn("external token lifetime too long", "subject", claims.Subject, "expires_at", expiresAt)
		return nil, domain.ErrUnauthorized
	}

	// Tokens without a jti are revoked by their digest
	tokenID := claims.ID
	if tokenID == "" {
		sum := sha256.Sum256([]byte(tokenString))
		tokenID = "sha256:" + hex.EncodeToString(sum[:])
	}

	return &models.Session{
		Subject:   claims.Subject,
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
	}, nil
}

// Close releases resources held by the verifier.
// keyfunc v3 manages its own refresh goroutine through the constructor context.
func (v *JWKSVerifier) Close() error {
	v.logger.Info("JWKS verifier closed")
	return nil
}
