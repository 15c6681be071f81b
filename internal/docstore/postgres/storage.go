package postgres

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/fekuna/omnipos-storefront-service/internal/docstore"
)

// FileStorage serves files from a static origin (CDN or object store website) laid out
// as <base>/<bucket>/<fileID>.
type FileStorage struct {
	BaseURL string
}

var _ docstore.Storage = FileStorage{}

func (s FileStorage) FileView(ctx context.Context, bucket, fileID string) (string, error) {
	if fileID == "" {
		return "", fmt.Errorf("file in %s: %w", bucket, docstore.ErrNotFound)
	}
	return strings.TrimRight(s.BaseURL, "/") + "/" + url.PathEscape(bucket) + "/" + url.PathEscape(fileID), nil
}

func (s FileStorage) FilePreview(ctx context.Context, bucket, fileID string, width, height int) (string, error) {
	u, err := s.FileView(ctx, bucket, fileID)
	if err != nil {
		return "", err
	}
	params := url.Values{}
	if width > 0 {
		params.Set("w", strconv.Itoa(width))
	}
	if height > 0 {
		params.Set("h", strconv.Itoa(height))
	}
	if len(params) == 0 {
		return u, nil
	}
	return u + "?" + params.Encode(), nil
}
