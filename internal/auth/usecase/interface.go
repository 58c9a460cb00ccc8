package usecase

import (
	"context"

	authdomain "receipt-backend/internal/auth/domain"
	authdto "receipt-backend/internal/auth/dto"
	"receipt-backend/pkg/googleauth"

	"golang.org/x/oauth2"
)

// OAuthProvider is the identity provider used by the login flow.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	UserInfo(ctx context.Context, tok *oauth2.Token) (*googleauth.UserInfo, error)
	Revoke(ctx context.Context, token string) error
}

// TokenRefresher mints a new access token from a refresh token.
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// AuthUsecase drives the Google sign-in flow for a browser session.
type AuthUsecase interface {
	// BeginLogin stores a fresh OAuth state in the session and returns the consent URL.
	BeginLogin(ctx context.Context, sess *authdomain.Session) (string, error)
	// CompleteLogin exchanges the callback code and marks the session logged in.
	CompleteLogin(ctx context.Context, sess *authdomain.Session, state, code string) error
	Status(sess *authdomain.Session) *authdto.AuthStatusResponse
	// Logout destroys the session and revokes its refresh token.
	Logout(ctx context.Context, sess *authdomain.Session) error
}

// TokenGuard hands out a non-expired access token for a session.
type TokenGuard interface {
	EnsureValidToken(ctx context.Context, sess *authdomain.Session) (*oauth2.Token, error)
}
