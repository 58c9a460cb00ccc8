package usecase

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"time"

	authdomain "receipt-backend/internal/auth/domain"
	authdto "receipt-backend/internal/auth/dto"
	"receipt-backend/internal/auth/repository"
	"receipt-backend/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// defaultTokenLifetime is assumed when the provider omits expires_in.
const defaultTokenLifetime = time.Hour

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	provider    OAuthProvider
	userRepo    repository.UserRepository
	sessions    repository.SessionRepository
	callTimeout time.Duration
	now         func() time.Time
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(provider OAuthProvider, userRepo repository.UserRepository, sessions repository.SessionRepository, callTimeout time.Duration) AuthUsecase {
	return &authUsecase{
		provider:    provider,
		userRepo:    userRepo,
		sessions:    sessions,
		callTimeout: callTimeout,
		now:         time.Now,
	}
}

func (u *authUsecase) BeginLogin(ctx context.Context, sess *authdomain.Session) (string, error) {
	state, err := randomState()
	if err != nil {
		return "", err
	}

	sess.OAuthState = state
	if err := u.sessions.Save(ctx, sess); err != nil {
		return "", err
	}
	logger.Sugar.Infow("redirecting to Google for authentication", "session", sess.ID)
	return u.provider.AuthCodeURL(state), nil
}

func (u *authUsecase) CompleteLogin(ctx context.Context, sess *authdomain.Session, state, code string) error {
	if code == "" {
		return authdomain.ErrMissingCode
	}
	expected := sess.OAuthState
	sess.OAuthState = ""
	if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(state)) != 1 {
		logger.Sugar.Warnw("oauth callback with mismatched state", "session", sess.ID)
		return authdomain.ErrInvalidState
	}

	callCtx, cancel := withTimeout(ctx, u.callTimeout)
	tok, err := u.provider.Exchange(callCtx, code)
	cancel()
	if err != nil {
		logger.Sugar.Errorw("error exchanging authorization code", "error", err)
		return authdomain.ErrExchangeFailed
	}
	logger.Sugar.Infow("tokens received", "refresh_token", tok.RefreshToken != "", "expiry", tok.Expiry)

	// New id on login so a pre-login cookie cannot be reused for the authenticated session.
	previousID := sess.ID
	sess.ID = uuid.NewString()
	sess.IsLoggedIn = true
	sess.AccessToken = tok.AccessToken
	sess.Expiry = expiryOf(tok, u.now())
	if tok.RefreshToken != "" {
		sess.RefreshToken = tok.RefreshToken
	}
	sess.User = u.identify(ctx, tok)

	if err := u.sessions.Save(ctx, sess); err != nil {
		return err
	}
	if previousID != "" {
		if err := u.sessions.Delete(ctx, previousID); err != nil {
			logger.Sugar.Warnw("failed to delete pre-login session", "session", previousID, "error", err)
		}
	}
	logger.Sugar.Infow("user session established", "session", sess.ID, "user", userEmail(sess.User))
	return nil
}

// identify fetches the profile and upserts it. Failures leave the session without a user.
func (u *authUsecase) identify(ctx context.Context, tok *oauth2.Token) *authdomain.User {
	callCtx, cancel := withTimeout(ctx, u.callTimeout)
	defer cancel()

	info, err := u.provider.UserInfo(callCtx, tok)
	if err != nil {
		logger.Sugar.Errorw("error fetching user info", "error", err)
		return nil
	}

	identity := &authdomain.User{
		ExternalID: info.ID,
		Name:       info.Name,
		Email:      info.Email,
		AvatarURL:  info.Picture,
		Provider:   "google",
	}
	user, err := u.userRepo.Upsert(ctx, identity)
	if err != nil {
		logger.Sugar.Errorw("error saving user", "external_id", info.ID, "error", err)
		return identity
	}
	return user
}

func (u *authUsecase) Status(sess *authdomain.Session) *authdto.AuthStatusResponse {
	if !sess.HasCredential() {
		return &authdto.AuthStatusResponse{LoggedIn: false}
	}
	return &authdto.AuthStatusResponse{
		LoggedIn: true,
		User:     authdto.NewUserResponse(sess.User),
	}
}

func (u *authUsecase) Logout(ctx context.Context, sess *authdomain.Session) error {
	refreshToken := sess.RefreshToken
	if err := u.sessions.Delete(ctx, sess.ID); err != nil {
		logger.Sugar.Errorw("error destroying session", "session", sess.ID, "error", err)
		return err
	}
	sess.Destroy()

	if refreshToken == "" {
		logger.Sugar.Infow("no refresh token found in session to revoke")
		return nil
	}
	callCtx, cancel := withTimeout(ctx, u.callTimeout)
	defer cancel()
	if err := u.provider.Revoke(callCtx, refreshToken); err != nil {
		logger.Sugar.Warnw("error revoking refresh token", "error", err)
		return nil
	}
	logger.Sugar.Infow("refresh token revoked")
	return nil
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func expiryOf(tok *oauth2.Token, now time.Time) time.Time {
	if tok.Expiry.IsZero() {
		return now.Add(defaultTokenLifetime)
	}
	return tok.Expiry
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func userEmail(user *authdomain.User) string {
	if user == nil {
		return ""
	}
	return user.Email
}
