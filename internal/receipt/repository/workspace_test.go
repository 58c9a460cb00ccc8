package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

// fakeGoogle answers Drive, Sheets and Vision calls on one endpoint.
type fakeGoogle struct {
	mu    sync.Mutex
	paths []string
}

func (f *fakeGoogle) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, r.Method+" "+r.URL.Path)
	w.Header().Set("Content-Type", "application/json")

	switch {
	case strings.HasSuffix(r.URL.Path, ":append"):
		_, _ = io.Copy(io.Discard, r.Body)
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-1"}`))
	case strings.HasSuffix(r.URL.Path, "images:annotate"):
		_, _ = w.Write([]byte(`{"responses":[{"fullTextAnnotation":{"text":"Date 2024-05-06"}}]}`))
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/files"):
		_ = json.NewEncoder(w).Encode(map[string]any{"files": []any{}})
	case r.Method == http.MethodPost && r.URL.Query().Get("uploadType") != "":
		_, _ = io.Copy(io.Discard, r.Body)
		_, _ = w.Write([]byte(`{"id":"file-1"}`))
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/files"):
		_, _ = w.Write([]byte(`{"id":"folder-1"}`))
	default:
		http.NotFound(w, r)
	}
}

func newFakeGoogle(t *testing.T) (*fakeGoogle, []option.ClientOption) {
	t.Helper()
	fake := &fakeGoogle{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return fake, []option.ClientOption{option.WithEndpoint(srv.URL + "/"), option.WithHTTPClient(srv.Client())}
}

func TestOpen_FullWorkspace(t *testing.T) {
	fake, opts := newFakeGoogle(t)
	f := NewGoogleWorkspaceFactory("sheet-1", "Receipts", true, opts...)
	ctx := context.Background()

	ws, err := f.Open(ctx, &oauth2.Token{AccessToken: "user-token"})
	require.NoError(t, err)
	require.NotNil(t, ws.Store)
	require.NotNil(t, ws.Ledger)
	require.NotNil(t, ws.Recognizer)

	id, err := ws.Store.CreateFolder(ctx, "Food", "root")
	require.NoError(t, err)
	assert.Equal(t, "folder-1", id)

	fileID, err := ws.Store.Upload(ctx, "a.jpg", id, "image/jpeg", bytes.NewReader([]byte("x")))
	require.NoError(t, err)
	assert.Equal(t, "file-1", fileID)

	require.NoError(t, ws.Ledger.AppendRow(ctx, []interface{}{"a", "b"}))

	text, err := ws.Recognizer.DetectText(ctx, []byte("image"))
	require.NoError(t, err)
	assert.Equal(t, "Date 2024-05-06", text)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Contains(t, strings.Join(fake.paths, "\n"), "Receipts")
	assert.Contains(t, strings.Join(fake.paths, "\n"), "sheet-1")
}

func TestOpen_OptionalCollaborators(t *testing.T) {
	_, opts := newFakeGoogle(t)
	f := NewGoogleWorkspaceFactory("", "Sheet1", false, opts...)

	ws, err := f.Open(context.Background(), &oauth2.Token{AccessToken: "user-token"})
	require.NoError(t, err)
	assert.NotNil(t, ws.Store)
	assert.Nil(t, ws.Ledger)
	assert.Nil(t, ws.Recognizer)
}
