package domain

import (
	"errors"
	"net/http"
)

// Failure kinds. Match them with errors.Is on an *UploadError.
var (
	ErrValidation          = errors.New("validation error")
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrUploadFailed        = errors.New("upload failed")
	ErrLedgerAppendFailed  = errors.New("ledger append failed")
	ErrLedgerNotConfigured = errors.New("ledger not configured")
	ErrFolderUnavailable   = errors.New("folder unavailable")
)

// UploadError is a terminal upload failure. Message is safe to show to the user;
// Err keeps the underlying cause for logs and errors.Is.
type UploadError struct {
	Kind    error
	Status  int
	Message string
	Err     error
}

func (e *UploadError) Error() string {
	return e.Message
}

func (e *UploadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func NewValidationError(message string) *UploadError {
	return &UploadError{Kind: ErrValidation, Status: http.StatusBadRequest, Message: message}
}

// NewAuthError reports a missing or unusable credential. kind is the auth
// sentinel that caused it.
func NewAuthError(kind error, message string) *UploadError {
	return &UploadError{Kind: kind, Status: http.StatusUnauthorized, Message: message}
}

func NewStorageError(message string, err error) *UploadError {
	return &UploadError{Kind: ErrStorageUnavailable, Status: http.StatusInternalServerError, Message: message, Err: err}
}

func NewUploadFailedError(message string, err error) *UploadError {
	return &UploadError{Kind: ErrUploadFailed, Status: http.StatusInternalServerError, Message: message, Err: err}
}
