package domain

import "time"

// Session is the server-side state behind a session cookie.
// If AccessToken is set, Expiry is set too.
type Session struct {
	ID           string    `json:"id"`
	IsLoggedIn   bool      `json:"is_logged_in"`
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
	OAuthState   string    `json:"oauth_state,omitempty"`
	User         *User     `json:"user,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`

	saved     bool
	destroyed bool
}

func NewSession(id string) *Session {
	return &Session{ID: id}
}

// HasCredential reports whether the session looks authenticated to the client.
func (s *Session) HasCredential() bool {
	return s != nil && s.IsLoggedIn && s.AccessToken != ""
}

// MarkSaved records that the session was written to a store during this request.
func (s *Session) MarkSaved() { s.saved = true }

// Saved reports whether the session was written during this request.
func (s *Session) Saved() bool { return s.saved }

// Destroy wipes the credential and identity and flags the session for cookie removal.
func (s *Session) Destroy() {
	s.IsLoggedIn = false
	s.AccessToken = ""
	s.RefreshToken = ""
	s.Expiry = time.Time{}
	s.OAuthState = ""
	s.User = nil
	s.destroyed = true
}

// Destroyed reports whether the session was destroyed during this request.
func (s *Session) Destroyed() bool { return s.destroyed }

// Clone returns a deep copy without the per-request flags.
func (s *Session) Clone() *Session {
	c := *s
	c.saved = false
	c.destroyed = false
	if s.User != nil {
		u := *s.User
		c.User = &u
	}
	return &c
}
