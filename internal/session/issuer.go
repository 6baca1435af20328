package session

import (
	"context"
	"net/http"
	"time"

	"github.com/WilliamDu1981/angular2club/internal/account"
)

// Issuer creates sessions for verified accounts. One successful
// verification yields exactly one session and one cookie.
type Issuer struct {
	store      Store
	ttl        time.Duration
	cookieOpts CookieOptions
}

func NewIssuer(store Store, ttl time.Duration) *Issuer {
	return &Issuer{
		store: store,
		ttl:   ttl,
		cookieOpts: CookieOptions{
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

// Issue persists a new session for the account and sets the cookie.
func (i *Issuer) Issue(ctx context.Context, w http.ResponseWriter, a *account.Account) (*Session, error) {
	sessionID, err := GenerateID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sess := Session{
		SessionID: sessionID,
		AccountID: a.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(i.ttl),
	}

	if err := i.store.Create(ctx, sess); err != nil {
		return nil, err
	}

	SetCookie(w, sessionID, sess.ExpiresAt, i.cookieOpts)
	return &sess, nil
}
