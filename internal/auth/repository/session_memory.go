package repository

import (
	"context"
	"sync"
	"time"

	authdomain "receipt-backend/internal/auth/domain"
)

// memorySessionRepository is the single-instance development store. Data is lost on restart.
type memorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*authdomain.Session
	ttl      time.Duration
	now      func() time.Time
}

func NewMemorySessionRepository(ttl time.Duration) SessionRepository {
	return &memorySessionRepository{
		sessions: make(map[string]*authdomain.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (r *memorySessionRepository) Find(_ context.Context, id string) (*authdomain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	if r.now().After(sess.ExpiresAt) {
		delete(r.sessions, id)
		return nil, nil
	}
	return sess.Clone(), nil
}

func (r *memorySessionRepository) Save(_ context.Context, sess *authdomain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	touch(sess, r.now(), r.ttl)
	r.sessions[sess.ID] = sess.Clone()
	sess.MarkSaved()
	return nil
}

func (r *memorySessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}
