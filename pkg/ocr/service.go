package ocr

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"
)

// Service runs Cloud Vision document text detection with the user's credential.
type Service struct {
	srv *vision.Service
}

func NewService(ctx context.Context, tok *oauth2.Token, opts ...option.ClientOption) (*Service, error) {
	opts = append([]option.ClientOption{option.WithTokenSource(oauth2.StaticTokenSource(tok))}, opts...)
	srv, err := vision.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Vision service: %w", err)
	}
	return &Service{srv: srv}, nil
}

// DetectText returns the full recognized text of image, or "" when none was found.
func (s *Service) DetectText(ctx context.Context, image []byte) (string, error) {
	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{{
			Image:    &vision.Image{Content: base64.StdEncoding.EncodeToString(image)},
			Features: []*vision.Feature{{Type: "DOCUMENT_TEXT_DETECTION"}},
		}},
	}

	resp, err := s.srv.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("text detection failed: %w", err)
	}
	if len(resp.Responses) == 0 {
		return "", nil
	}

	result := resp.Responses[0]
	if result.Error != nil {
		return "", errors.New("text detection failed: " + result.Error.Message)
	}
	if result.FullTextAnnotation == nil {
		return "", nil
	}
	return result.FullTextAnnotation.Text, nil
}
