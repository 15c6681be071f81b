package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/docstore"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/notification/dto"
)

type notificationDocument struct {
	ID            string              `json:"$id"`
	CreatedAt     time.Time           `json:"$createdAt"`
	UpdatedAt     time.Time           `json:"$updatedAt"`
	UserID        string              `json:"userId"`
	ProductID     string              `json:"productId"`
	ProductName   string              `json:"productName"`
	RequestStatus model.RequestStatus `json:"requestStatus"`
	IsRead        bool                `json:"isRead"`
	NotifiedAt    *time.Time          `json:"notifiedAt"`
}

type DocstoreRepository struct {
	client     docstore.Client
	collection string
}

func NewDocstoreRepository(client docstore.Client, collection string) *DocstoreRepository {
	return &DocstoreRepository{
		client:     client,
		collection: collection,
	}
}

func (r *DocstoreRepository) FindAll(ctx context.Context, f *dto.NotificationFilters) ([]model.ProductNotification, error) {
	var queries []docstore.Query
	if f.UserID != "" {
		queries = append(queries, docstore.Equal("userId", f.UserID))
	}
	if f.ProductID != "" {
		queries = append(queries, docstore.Equal("productId", f.ProductID))
	}
	if f.Cursor != "" {
		queries = append(queries, docstore.CursorAfter(f.Cursor))
	} else if f.UserID != "" {
		// newest first for a user's inbox; sweeps walk in id order so the cursor stays valid
		queries = append(queries, docstore.OrderDesc(docstore.AttrCreatedAt))
	}
	queries = append(queries, docstore.Limit(f.Limit))

	list, err := r.client.ListDocuments(ctx, r.collection, queries...)
	if err != nil {
		return nil, err
	}

	out := make([]model.ProductNotification, 0, len(list.Documents))
	for _, doc := range list.Documents {
		n, err := decodeNotification(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *DocstoreRepository) FindByID(ctx context.Context, id string) (*model.ProductNotification, error) {
	doc, err := r.client.GetDocument(ctx, r.collection, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	n, err := decodeNotification(*doc)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *DocstoreRepository) Create(ctx context.Context, n *model.ProductNotification) error {
	doc, err := r.client.CreateDocument(ctx, r.collection, n.ID, map[string]any{
		"userId":        n.UserID,
		"productId":     n.ProductID,
		"productName":   n.ProductName,
		"requestStatus": n.RequestStatus,
		"isRead":        n.IsRead,
		"notifiedAt":    n.NotifiedAt,
	})
	if err != nil {
		return err
	}
	n.CreatedAt = doc.CreatedAt
	n.UpdatedAt = doc.UpdatedAt
	return nil
}

func (r *DocstoreRepository) UpdateStatus(ctx context.Context, n *model.ProductNotification) error {
	doc, err := r.client.UpdateDocument(ctx, r.collection, n.ID, map[string]any{
		"requestStatus": n.RequestStatus,
		"notifiedAt":    n.NotifiedAt,
	})
	if err != nil {
		return err
	}
	n.UpdatedAt = doc.UpdatedAt
	return nil
}

func (r *DocstoreRepository) MarkRead(ctx context.Context, id string) error {
	_, err := r.client.UpdateDocument(ctx, r.collection, id, map[string]any{"isRead": true})
	return err
}

func decodeNotification(doc docstore.Document) (model.ProductNotification, error) {
	var raw notificationDocument
	if err := doc.Decode(&raw); err != nil {
		return model.ProductNotification{}, fmt.Errorf("decode notification %s: %w", doc.ID, err)
	}

	return model.ProductNotification{
		BaseModel: model.BaseModel{
			ID:        raw.ID,
			CreatedAt: raw.CreatedAt,
			UpdatedAt: raw.UpdatedAt,
		},
		UserID:        raw.UserID,
		ProductID:     raw.ProductID,
		ProductName:   raw.ProductName,
		RequestStatus: raw.RequestStatus,
		IsRead:        raw.IsRead,
		NotifiedAt:    raw.NotifiedAt,
	}, nil
}
