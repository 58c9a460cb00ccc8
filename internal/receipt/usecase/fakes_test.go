package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	authdomain "receipt-backend/internal/auth/domain"

	"golang.org/x/oauth2"
)

var errRemote = errors.New("googleapi: Error 403: insufficient permissions")

type uploadedFile struct {
	name, parentID, contentType string
	data                        []byte
}

type fakeStore struct {
	mu       sync.Mutex
	folders  map[string]string // parent + "/" + name -> id
	finds    int
	creates  int
	uploads  []uploadedFile
	findErr  map[string]error // keyed by folder name
	createEr error
	uploadEr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{folders: map[string]string{}, findErr: map[string]error{}}
}

func (s *fakeStore) FindFolder(_ context.Context, name, parentID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finds++
	if err := s.findErr[name]; err != nil {
		return "", false, err
	}
	id, ok := s.folders[parentID+"/"+name]
	return id, ok, nil
}

func (s *fakeStore) CreateFolder(_ context.Context, name, parentID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createEr != nil {
		return "", s.createEr
	}
	s.creates++
	id := fmt.Sprintf("folder-%d-%s", s.creates, name)
	s.folders[parentID+"/"+name] = id
	return id, nil
}

func (s *fakeStore) Upload(_ context.Context, name, parentID, contentType string, body io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploadEr != nil {
		return "", s.uploadEr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.uploads = append(s.uploads, uploadedFile{name: name, parentID: parentID, contentType: contentType, data: data})
	return "file-1", nil
}

type fakeLedger struct {
	rows [][]interface{}
	err  error
}

func (l *fakeLedger) AppendRow(_ context.Context, row []interface{}) error {
	if l.err != nil {
		return l.err
	}
	l.rows = append(l.rows, row)
	return nil
}

type fakeRecognizer struct {
	text string
	err  error
}

func (r *fakeRecognizer) DetectText(context.Context, []byte) (string, error) {
	return r.text, r.err
}

type fakeFactory struct {
	ws     *Workspace
	err    error
	opened int
}

func (f *fakeFactory) Open(context.Context, *oauth2.Token) (*Workspace, error) {
	f.opened++
	if f.err != nil {
		return nil, f.err
	}
	return f.ws, nil
}

type fakeGuard struct {
	err   error
	calls int
}

func (g *fakeGuard) EnsureValidToken(context.Context, *authdomain.Session) (*oauth2.Token, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return &oauth2.Token{AccessToken: "access"}, nil
}
