package session

import (
	"context"
	"time"
)

// Session represents an authenticated kiosk session. It stores only a
// pointer to the external identity subject, never auth state or profile
// data.
type Session struct {
	SessionID  string    // unique session identifier
	ExternalID string    // external identity subject (provider sub)
	CreatedAt  time.Time // when the guest signed in
	ExpiresAt  time.Time // absolute expiry time
}

// Store defines how sessions are stored and retrieved.
// Implementations (e.g., Redis) must remain stateless and opaque.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Update(ctx context.Context, s Session) error
	Delete(ctx context.Context, sessionID string) error
}
