// Package docstore is the contract for the remote document database and file storage the
// storefront reads from. Drivers live in the appwrite and postgres subpackages.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("docstore: document not found")
	ErrConflict         = errors.New("docstore: document already exists")
	ErrUnsupportedQuery = errors.New("docstore: unsupported query")
)

// Document is one stored record. Raw holds the full JSON object including the
// system attributes ($id, $createdAt, $updatedAt).
type Document struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	Raw       json.RawMessage
}

// Decode unmarshals the raw document into a collection-specific record.
func (d Document) Decode(v any) error {
	return json.Unmarshal(d.Raw, v)
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var sys struct {
		ID        string    `json:"$id"`
		CreatedAt time.Time `json:"$createdAt"`
		UpdatedAt time.Time `json:"$updatedAt"`
	}
	if err := json.Unmarshal(data, &sys); err != nil {
		return err
	}
	d.ID = sys.ID
	d.CreatedAt = sys.CreatedAt
	d.UpdatedAt = sys.UpdatedAt
	d.Raw = append(d.Raw[:0], data...)
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	if len(d.Raw) == 0 {
		return []byte("null"), nil
	}
	return d.Raw, nil
}

type DocumentList struct {
	Total     int        `json:"total"`
	Documents []Document `json:"documents"`
}

type Client interface {
	ListDocuments(ctx context.Context, collection string, queries ...Query) (*DocumentList, error)
	GetDocument(ctx context.Context, collection, id string) (*Document, error)
	CreateDocument(ctx context.Context, collection, id string, data map[string]any) (*Document, error)
	UpdateDocument(ctx context.Context, collection, id string, data map[string]any) (*Document, error)
}

// Storage resolves stored files into public URLs. Resolution may hit the network.
type Storage interface {
	FileView(ctx context.Context, bucket, fileID string) (string, error)
	FilePreview(ctx context.Context, bucket, fileID string, width, height int) (string, error)
}
