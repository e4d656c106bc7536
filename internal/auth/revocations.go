package auth

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Revocations is the in-memory denylist of logged out token ids.
// Entries are kept for maxLifetime, which must be at least the remaining
// lifetime of any token a verifier accepts. The list is unbounded; only an
// authenticated admin can add to it.
type Revocations struct {
	denied *expirable.LRU[string, time.Time]
	now    func() time.Time
}

// NewRevocations creates a denylist whose entries live for maxLifetime
func NewRevocations(maxLifetime time.Duration) *Revocations {
	return &Revocations{
		denied: expirable.NewLRU[string, time.Time](0, nil, maxLifetime),
		now:    time.Now,
	}
}

// Revoke denies tokenID until expiresAt
func (r *Revocations) Revoke(tokenID string, expiresAt time.Time) {
	if tokenID == "" || !expiresAt.After(r.now()) {
		return
	}
	r.denied.Add(tokenID, expiresAt)
}

// Revoked reports whether tokenID has been revoked
func (r *Revocations) Revoked(tokenID string) bool {
	_, ok := r.denied.Peek(tokenID)
	return ok
}
