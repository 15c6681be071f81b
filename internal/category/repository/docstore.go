package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/category/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/docstore"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

// categoryDocument is the stored shape of a category.
type categoryDocument struct {
	ID          string    `json:"$id"`
	CreatedAt   time.Time `json:"$createdAt"`
	UpdatedAt   time.Time `json:"$updatedAt"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Image       *string   `json:"image"`
	ParentID    *string   `json:"parentId"`
}

type DocstoreRepository struct {
	client     docstore.Client
	storage    docstore.Storage
	collection string
	bucket     string
}

func NewDocstoreRepository(client docstore.Client, storage docstore.Storage, collection, bucket string) *DocstoreRepository {
	return &DocstoreRepository{
		client:     client,
		storage:    storage,
		collection: collection,
		bucket:     bucket,
	}
}

func (r *DocstoreRepository) FindBatch(ctx context.Context, f *dto.CategoryFilters) ([]model.Category, error) {
	list, err := r.client.ListDocuments(ctx, r.collection,
		docstore.Limit(f.Limit),
		docstore.Offset(f.Offset),
	)
	if err != nil {
		return nil, err
	}

	categories := make([]model.Category, 0, len(list.Documents))
	for _, doc := range list.Documents {
		var raw categoryDocument
		if err := doc.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode category %s: %w", doc.ID, err)
		}
		categories = append(categories, raw.toModel())
	}
	return categories, nil
}

func (r *DocstoreRepository) ResolveIcon(ctx context.Context, imageID string) (string, error) {
	return r.storage.FileView(ctx, r.bucket, imageID)
}

func (d categoryDocument) toModel() model.Category {
	parentID := d.ParentID
	if parentID != nil && *parentID == "" {
		parentID = nil
	}
	imageID := d.Image
	if imageID != nil && *imageID == "" {
		imageID = nil
	}

	return model.Category{
		BaseModel: model.BaseModel{
			ID:        d.ID,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
		Name:        d.Name,
		Description: d.Description,
		ImageID:     imageID,
		ParentID:    parentID,
	}
}
