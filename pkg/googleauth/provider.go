package googleauth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

const revokeURL = "https://oauth2.googleapis.com/revoke"

// Scopes requested at consent time. drive.file limits Drive access to files this app creates.
var Scopes = []string{
	"https://www.googleapis.com/auth/drive.file",
	"https://www.googleapis.com/auth/cloud-vision",
	"https://www.googleapis.com/auth/spreadsheets",
	"profile",
	"email",
}

// UserInfo is the subset of the Google profile kept for a session.
type UserInfo struct {
	ID      string
	Name    string
	Email   string
	Picture string
}

// Provider wraps the Google OAuth 2.0 endpoints used by the web flow.
type Provider struct {
	config     *oauth2.Config
	revokeURL  string
	httpClient *http.Client
	apiOptions []option.ClientOption
}

func NewProvider(clientID, clientSecret, redirectURI string) *Provider {
	return &Provider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       Scopes,
			Endpoint:     google.Endpoint,
		},
		revokeURL:  revokeURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// WithEndpoints points the provider at alternative token, revoke and userinfo
// endpoints. Used with local test servers.
func (p *Provider) WithEndpoints(endpoint oauth2.Endpoint, revoke string, apiOptions ...option.ClientOption) *Provider {
	p.config.Endpoint = endpoint
	p.revokeURL = revoke
	p.apiOptions = apiOptions
	return p
}

// AuthCodeURL returns the consent page URL, asking for offline access so a refresh token is issued.
func (p *Provider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for tokens.
func (p *Provider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return tok, nil
}

// Refresh mints a new access token from a refresh token.
func (p *Provider) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, errors.New("refresh token is empty")
	}
	tok, err := p.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh access token: %w", err)
	}
	return tok, nil
}

// Revoke invalidates a token at Google. x/oauth2 has no revocation support.
func (p *Provider) Revoke(ctx context.Context, token string) error {
	form := url.Values{"token": {token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.revokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("failed to revoke token: status %d, body: %s", resp.StatusCode, string(body))
	}
	return nil
}

// UserInfo fetches the profile of the token owner.
func (p *Provider) UserInfo(ctx context.Context, tok *oauth2.Token) (*UserInfo, error) {
	opts := append([]option.ClientOption{option.WithTokenSource(oauth2.StaticTokenSource(tok))}, p.apiOptions...)
	srv, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create oauth2 service: %w", err)
	}

	info, err := srv.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve user info: %w", err)
	}
	return &UserInfo{
		ID:      info.Id,
		Name:    info.Name,
		Email:   info.Email,
		Picture: info.Picture,
	}, nil
}
