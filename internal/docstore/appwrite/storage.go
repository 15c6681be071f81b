package appwrite

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fekuna/omnipos-storefront-service/internal/docstore"
)

// FileView checks that the file exists and returns its public view URL.
func (c *Client) FileView(ctx context.Context, bucket, fileID string) (string, error) {
	if err := c.checkFile(ctx, bucket, fileID); err != nil {
		return "", err
	}
	params := url.Values{"project": {c.cfg.ProjectID}}
	return c.base + c.filePath(bucket, fileID) + "/view?" + params.Encode(), nil
}

// FilePreview is FileView with server-side resizing. Zero dimensions keep the original size.
func (c *Client) FilePreview(ctx context.Context, bucket, fileID string, width, height int) (string, error) {
	if err := c.checkFile(ctx, bucket, fileID); err != nil {
		return "", err
	}
	params := url.Values{"project": {c.cfg.ProjectID}}
	if width > 0 {
		params.Set("width", strconv.Itoa(width))
	}
	if height > 0 {
		params.Set("height", strconv.Itoa(height))
	}
	return c.base + c.filePath(bucket, fileID) + "/preview?" + params.Encode(), nil
}

func (c *Client) checkFile(ctx context.Context, bucket, fileID string) error {
	if fileID == "" {
		return wrapError("file", bucket, fileID, docstore.ErrNotFound)
	}
	if _, err := c.doRequest(ctx, http.MethodGet, c.filePath(bucket, fileID), nil, nil); err != nil {
		return wrapError("file", bucket, fileID, err)
	}
	return nil
}

func (c *Client) filePath(bucket, fileID string) string {
	return fmt.Sprintf("/storage/buckets/%s/files/%s", url.PathEscape(bucket), url.PathEscape(fileID))
}
