package gdrive

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	FolderMimeType = "application/vnd.google-apps.folder"
	// RootFolderID is Drive's alias for the top of the user's My Drive.
	RootFolderID = "root"
)

// Service is a Drive client bound to a single user's credential.
type Service struct {
	srv *drive.Service
}

// NewService creates a Drive client that authenticates every call with tok.
func NewService(ctx context.Context, tok *oauth2.Token, opts ...option.ClientOption) (*Service, error) {
	opts = append([]option.ClientOption{option.WithTokenSource(oauth2.StaticTokenSource(tok))}, opts...)
	srv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Drive service: %w", err)
	}
	return &Service{srv: srv}, nil
}

// FindFolder returns the id of the first non-trashed folder called name directly under parentID.
func (s *Service) FindFolder(ctx context.Context, name, parentID string) (string, bool, error) {
	query := fmt.Sprintf("mimeType = '%s' and trashed = false and name = '%s' and '%s' in parents",
		FolderMimeType, escapeQuery(name), escapeQuery(parentID))

	fileList, err := s.srv.Files.List().
		Q(query).
		Spaces("drive").
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return "", false, fmt.Errorf("unable to search for folder %q: %w", name, err)
	}
	if len(fileList.Files) == 0 {
		return "", false, nil
	}
	return fileList.Files[0].Id, true, nil
}

// CreateFolder creates a folder called name under parentID and returns its id.
func (s *Service) CreateFolder(ctx context.Context, name, parentID string) (string, error) {
	folder := &drive.File{
		Name:     name,
		MimeType: FolderMimeType,
		Parents:  []string{parentID},
	}
	created, err := s.srv.Files.Create(folder).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create folder %q: %w", name, err)
	}
	return created.Id, nil
}

// Upload stores body as a new file called name inside parentID.
func (s *Service) Upload(ctx context.Context, name, parentID, contentType string, body io.Reader) (string, error) {
	file := &drive.File{
		Name:    name,
		Parents: []string{parentID},
	}
	created, err := s.srv.Files.Create(file).
		Media(body, googleapi.ContentType(contentType)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("unable to upload %q: %w", name, err)
	}
	return created.Id, nil
}

// escapeQuery escapes a value placed inside single quotes in a Drive query.
func escapeQuery(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `'`, `\'`)
}
