package usecase

import (
	"context"
	"errors"
	"sync"

	authdomain "receipt-backend/internal/auth/domain"
	"receipt-backend/internal/auth/repository"
	"receipt-backend/pkg/googleauth"

	"golang.org/x/oauth2"
)

// countingSessions wraps a real store and counts writes.
type countingSessions struct {
	repository.SessionRepository
	mu      sync.Mutex
	saves   int
	deletes []string
	saveErr error
}

func (c *countingSessions) Save(ctx context.Context, sess *authdomain.Session) error {
	c.mu.Lock()
	c.saves++
	c.mu.Unlock()
	if c.saveErr != nil {
		return c.saveErr
	}
	return c.SessionRepository.Save(ctx, sess)
}

func (c *countingSessions) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	c.deletes = append(c.deletes, id)
	c.mu.Unlock()
	return c.SessionRepository.Delete(ctx, id)
}

type fakeRefresher struct {
	calls int
	tok   *oauth2.Token
	err   error
}

func (f *fakeRefresher) Refresh(_ context.Context, _ string) (*oauth2.Token, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.tok, nil
}

type fakeProvider struct {
	exchangeTok *oauth2.Token
	exchangeErr error
	info        *googleauth.UserInfo
	infoErr     error
	revoked     []string
	revokeErr   error
}

func (f *fakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (f *fakeProvider) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	if code == "" {
		return nil, errors.New("empty code")
	}
	return f.exchangeTok, nil
}

func (f *fakeProvider) UserInfo(_ context.Context, _ *oauth2.Token) (*googleauth.UserInfo, error) {
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return f.info, nil
}

func (f *fakeProvider) Revoke(_ context.Context, token string) error {
	f.revoked = append(f.revoked, token)
	return f.revokeErr
}
