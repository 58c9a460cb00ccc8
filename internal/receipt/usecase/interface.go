package usecase

import (
	"context"
	"io"

	authdomain "receipt-backend/internal/auth/domain"
	receiptdomain "receipt-backend/internal/receipt/domain"
	receiptdto "receipt-backend/internal/receipt/dto"

	"golang.org/x/oauth2"
)

// ObjectStore is the user's file store.
type ObjectStore interface {
	// FindFolder reports the first non-trashed folder called name directly under parentID.
	FindFolder(ctx context.Context, name, parentID string) (string, bool, error)
	CreateFolder(ctx context.Context, name, parentID string) (string, error)
	Upload(ctx context.Context, name, parentID, contentType string, body io.Reader) (string, error)
}

// Ledger appends receipt rows to the configured spreadsheet.
type Ledger interface {
	AppendRow(ctx context.Context, row []interface{}) error
}

type TextRecognizer interface {
	DetectText(ctx context.Context, image []byte) (string, error)
}

// Workspace holds the remote collaborators bound to one request's credential.
// Ledger is nil when no spreadsheet is configured, Recognizer when OCR is off.
type Workspace struct {
	Store      ObjectStore
	Ledger     Ledger
	Recognizer TextRecognizer
}

// WorkspaceFactory builds a Workspace for a single access token.
type WorkspaceFactory interface {
	Open(ctx context.Context, tok *oauth2.Token) (*Workspace, error)
}

type UploadUsecase interface {
	Upload(ctx context.Context, sess *authdomain.Session, req *receiptdto.UploadRequest) (*receiptdomain.UploadResult, error)
	PaymentMethods() []string
}
