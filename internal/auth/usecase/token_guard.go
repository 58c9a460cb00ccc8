package usecase

import (
	"context"
	"errors"
	"time"

	authdomain "receipt-backend/internal/auth/domain"
	"receipt-backend/internal/auth/repository"
	"receipt-backend/pkg/logger"

	"golang.org/x/oauth2"
)

// RefreshBuffer is how long before expiry an access token is treated as stale.
const RefreshBuffer = 5 * time.Minute

var errEmptyAccessToken = errors.New("refresh returned an empty access token")

type tokenGuard struct {
	refresher   TokenRefresher
	sessions    repository.SessionRepository
	callTimeout time.Duration
	now         func() time.Time
}

func NewTokenGuard(refresher TokenRefresher, sessions repository.SessionRepository, callTimeout time.Duration) TokenGuard {
	return &tokenGuard{
		refresher:   refresher,
		sessions:    sessions,
		callTimeout: callTimeout,
		now:         time.Now,
	}
}

// EnsureValidToken returns the session's access token, refreshing it first when
// it expires within RefreshBuffer. Any refresh problem destroys the session.
// The returned token carries no refresh token, so clients built from it never refresh on their own.
func (g *tokenGuard) EnsureValidToken(ctx context.Context, sess *authdomain.Session) (*oauth2.Token, error) {
	if sess == nil || !sess.IsLoggedIn || sess.AccessToken == "" || sess.Expiry.IsZero() {
		logger.Sugar.Warnw("no valid session or token found")
		return nil, authdomain.ErrUnauthenticated
	}

	now := g.now()
	if now.Before(sess.Expiry.Add(-RefreshBuffer)) {
		return bearer(sess.AccessToken, sess.Expiry), nil
	}

	logger.Sugar.Infow("access token expired or nearing expiry, refreshing", "session", sess.ID, "expiry", sess.Expiry)
	if sess.RefreshToken == "" {
		logger.Sugar.Errorw("refresh token missing from session", "session", sess.ID)
		g.destroy(ctx, sess)
		return nil, authdomain.ErrSessionExpired
	}

	callCtx, cancel := withTimeout(ctx, g.callTimeout)
	tok, err := g.refresher.Refresh(callCtx, sess.RefreshToken)
	cancel()
	if err == nil && tok.AccessToken == "" {
		err = errEmptyAccessToken
	}
	if err != nil {
		logger.Sugar.Errorw("error refreshing access token", "session", sess.ID, "error", err)
		g.destroy(ctx, sess)
		return nil, authdomain.ErrReauthRequired
	}

	sess.AccessToken = tok.AccessToken
	sess.Expiry = expiryOf(tok, now)
	if tok.RefreshToken != "" {
		sess.RefreshToken = tok.RefreshToken
	}
	if err := g.sessions.Save(ctx, sess); err != nil {
		// The new token is valid for this request even if it could not be stored.
		logger.Sugar.Errorw("failed to store refreshed token", "session", sess.ID, "error", err)
	}
	logger.Sugar.Infow("access token refreshed", "session", sess.ID, "expiry", sess.Expiry)
	return bearer(sess.AccessToken, sess.Expiry), nil
}

func (g *tokenGuard) destroy(ctx context.Context, sess *authdomain.Session) {
	if err := g.sessions.Delete(ctx, sess.ID); err != nil {
		logger.Sugar.Errorw("failed to destroy session", "session", sess.ID, "error", err)
	}
	sess.Destroy()
}

func bearer(accessToken string, expiry time.Time) *oauth2.Token {
	return &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		Expiry:      expiry,
	}
}
