package gsheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

func TestAppendRow(t *testing.T) {
	var gotPath, gotInput, gotInsert string
	var gotValues [][]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotInput = r.URL.Query().Get("valueInputOption")
		gotInsert = r.URL.Query().Get("insertDataOption")
		var body struct {
			Values [][]interface{} `json:"values"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotValues = body.Values
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-1"}`))
	}))
	defer srv.Close()

	s, err := NewService(context.Background(), &oauth2.Token{AccessToken: "a"},
		option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	row := []interface{}{"2024-01-01 12:00:00", "N/A", "12.50", "Food", "Cash", "20240101120000.jpg", "file-1"}
	require.NoError(t, s.AppendRow(context.Background(), "sheet-1", "Sheet1", row))

	assert.True(t, strings.HasSuffix(gotPath, ":append"), gotPath)
	assert.Contains(t, gotPath, "sheet-1")
	assert.Equal(t, "USER_ENTERED", gotInput)
	assert.Equal(t, "INSERT_ROWS", gotInsert)
	require.Len(t, gotValues, 1)
	assert.Equal(t, []interface{}{"2024-01-01 12:00:00", "N/A", "12.50", "Food", "Cash", "20240101120000.jpg", "file-1"}, gotValues[0])
}

func TestAppendRow_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"The caller does not have permission"}}`))
	}))
	defer srv.Close()

	s, err := NewService(context.Background(), &oauth2.Token{AccessToken: "a"},
		option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	assert.Error(t, s.AppendRow(context.Background(), "sheet-1", "Sheet1", []interface{}{"x"}))
}
