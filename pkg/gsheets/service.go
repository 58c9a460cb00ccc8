package gsheets

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type Service struct {
	srv *sheets.Service
}

func NewService(ctx context.Context, tok *oauth2.Token, opts ...option.ClientOption) (*Service, error) {
	opts = append([]option.ClientOption{option.WithTokenSource(oauth2.StaticTokenSource(tok))}, opts...)
	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %w", err)
	}
	return &Service{srv: srv}, nil
}

// AppendRow appends one row after the last row with data in sheetName.
// Values are entered as if typed by a user, so dates and numbers are parsed by Sheets.
func (s *Service) AppendRow(ctx context.Context, spreadsheetID, sheetName string, row []interface{}) error {
	values := &sheets.ValueRange{Values: [][]interface{}{row}}

	_, err := s.srv.Spreadsheets.Values.Append(spreadsheetID, sheetName+"!A1", values).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("unable to append row to %s: %w", sheetName, err)
	}
	return nil
}
