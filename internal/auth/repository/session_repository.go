package repository

import (
	"context"
	"time"

	authdomain "receipt-backend/internal/auth/domain"
)

// SessionRepository persists server-side sessions.
type SessionRepository interface {
	// Find returns nil, nil for unknown or expired sessions.
	Find(ctx context.Context, id string) (*authdomain.Session, error)
	// Save writes the session and extends its lifetime.
	Save(ctx context.Context, sess *authdomain.Session) error
	Delete(ctx context.Context, id string) error
}

// touch stamps creation and rolling expiry before a write.
func touch(sess *authdomain.Session, now time.Time, ttl time.Duration) {
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = now
	}
	sess.ExpiresAt = now.Add(ttl)
}
