package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AdminSubject is the subject of locally issued admin tokens.
const AdminSubject = "admin"

// AdminClaims represents the JWT claims of an admin session token.
type AdminClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, exp, iat, jti)
	Role                 string `json:"role"`
}

// SessionToken is returned by a successful login.
type SessionToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Session describes the caller of an authenticated request.
type Session struct {
	Subject   string    `json:"subject"`
	TokenID   string    `json:"token_id,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}
