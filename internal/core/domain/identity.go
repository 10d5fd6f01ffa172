package domain

import (
	"time"
)

// Identity is the authenticated shopper decoded from a stored credential.
type Identity struct {
	ID        string
	Name      string
	Email     string
	ExpiresAt time.Time
}

// Expired reports whether the credential expiry has passed at the given time.
func (id Identity) Expired(now time.Time) bool {
	return !now.Before(id.ExpiresAt)
}
