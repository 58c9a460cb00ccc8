package repository

import (
	"context"

	"receipt-backend/internal/receipt/usecase"
	"receipt-backend/pkg/gdrive"
	"receipt-backend/pkg/gsheets"
	"receipt-backend/pkg/ocr"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

// googleWorkspaceFactory builds Drive, Sheets and Vision clients for one user token.
type googleWorkspaceFactory struct {
	spreadsheetID string
	sheetName     string
	ocrEnabled    bool
	opts          []option.ClientOption
}

// NewGoogleWorkspaceFactory returns a factory whose workspaces have no ledger
// when spreadsheetID is empty. opts are passed to every Google client.
func NewGoogleWorkspaceFactory(spreadsheetID, sheetName string, ocrEnabled bool, opts ...option.ClientOption) usecase.WorkspaceFactory {
	return &googleWorkspaceFactory{
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		ocrEnabled:    ocrEnabled,
		opts:          opts,
	}
}

func (f *googleWorkspaceFactory) Open(ctx context.Context, tok *oauth2.Token) (*usecase.Workspace, error) {
	drive, err := gdrive.NewService(ctx, tok, f.opts...)
	if err != nil {
		return nil, err
	}
	ws := &usecase.Workspace{Store: drive}

	if f.spreadsheetID != "" {
		sheets, err := gsheets.NewService(ctx, tok, f.opts...)
		if err != nil {
			return nil, err
		}
		ws.Ledger = &sheetLedger{sheets: sheets, spreadsheetID: f.spreadsheetID, sheetName: f.sheetName}
	}

	if f.ocrEnabled {
		vision, err := ocr.NewService(ctx, tok, f.opts...)
		if err != nil {
			return nil, err
		}
		ws.Recognizer = vision
	}
	return ws, nil
}

// sheetLedger appends to a fixed spreadsheet tab.
type sheetLedger struct {
	sheets        *gsheets.Service
	spreadsheetID string
	sheetName     string
}

func (l *sheetLedger) AppendRow(ctx context.Context, row []interface{}) error {
	return l.sheets.AppendRow(ctx, l.spreadsheetID, l.sheetName, row)
}
