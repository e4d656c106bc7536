package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// PasswordChecker compares login attempts with the configured admin secret.
// A bcrypt hash takes precedence over a plaintext password.
type PasswordChecker struct {
	hash  []byte
	plain []byte
}

// NewPasswordChecker creates a checker from the configured hash and/or password
func NewPasswordChecker(hash, plain string) *PasswordChecker {
	return &PasswordChecker{hash: []byte(hash), plain: []byte(plain)}
}

// Configured reports whether any secret is set
func (p *PasswordChecker) Configured() bool {
	return len(p.hash) > 0 || len(p.plain) > 0
}

// Check reports whether password matches
func (p *PasswordChecker) Check(password string) bool {
	switch {
	case len(p.hash) > 0:
		return bcrypt.CompareHashAndPassword(p.hash, []byte(password)) == nil
	case len(p.plain) > 0:
		return subtle.ConstantTimeCompare(p.plain, []byte(password)) == 1
	default:
		return false
	}
}
