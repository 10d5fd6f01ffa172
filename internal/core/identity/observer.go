// Package identity decodes and validates the locally stored credential.
//
// The credential is a JWT issued by the remote order service. Like the
// browser client it replaces, the observer only decodes the token and
// checks its expiry against wall-clock time; signature verification is
// the server's job. Absent, malformed or expired credentials all read
// as "logged out" without surfacing an error.
package identity

import (
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/vietddude/storefront/internal/core/domain"
)

type claims struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Observer reports the current identity from the token store.
// There are no push notifications; callers poll at app start and after
// login.
type Observer struct {
	tokens TokenStore
	now    func() time.Time
	log    *slog.Logger
}

// NewObserver creates an observer over the given token store.
func NewObserver(tokens TokenStore) *Observer {
	return &Observer{
		tokens: tokens,
		now:    time.Now,
		log:    slog.Default(),
	}
}

// Current returns the authenticated identity, or nil when the stored
// credential is absent, malformed or expired. An expired credential is
// removed from the store, matching the browser client's behavior.
func (o *Observer) Current() *domain.Identity {
	token, err := o.tokens.Load()
	if err != nil {
		o.log.Debug("Failed to load credential", "error", err)
		return nil
	}
	if token == "" {
		return nil
	}

	var c claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		o.log.Debug("Failed to decode credential", "error", err)
		return nil
	}
	if c.ExpiresAt == nil {
		o.log.Debug("Credential has no expiry, treating as malformed")
		return nil
	}

	if !o.now().Before(c.ExpiresAt.Time) {
		o.log.Info("Stored credential expired, clearing")
		if err := o.tokens.Clear(); err != nil {
			o.log.Warn("Failed to clear expired credential", "error", err)
		}
		return nil
	}

	return &domain.Identity{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		ExpiresAt: c.ExpiresAt.Time,
	}
}

// Token returns the raw stored credential for request authentication,
// or "" when none is stored.
func (o *Observer) Token() string {
	token, err := o.tokens.Load()
	if err != nil {
		return ""
	}
	return token
}
