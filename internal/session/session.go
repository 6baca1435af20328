package session

import (
	"context"
	"time"
)

// Session binds a session id to the account that was verified when it
// was issued. It stores identity pointers only, no auth state.
type Session struct {
	SessionID string    `json:"sessionId"`
	AccountID string    `json:"accountId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Store defines how sessions are stored and retrieved.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}
