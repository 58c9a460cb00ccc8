package domain

import "errors"

// The messages are shown to the user as-is.
var (
	ErrUnauthenticated = errors.New("User not authenticated. Please log in again.")
	ErrSessionExpired  = errors.New("Session expired and refresh token not found. Please log in again.")
	ErrReauthRequired  = errors.New("Failed to refresh authentication. Please log in again.")

	ErrMissingCode    = errors.New("authorization code is missing")
	ErrInvalidState   = errors.New("invalid OAuth state")
	ErrExchangeFailed = errors.New("Failed to authenticate with Google.")
)
