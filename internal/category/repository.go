package category

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/category/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

type Repository interface {
	// FindBatch returns one flat page of categories. Children are never populated.
	FindBatch(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, error)
	// ResolveIcon turns a storage file id into a public URL.
	ResolveIcon(ctx context.Context, imageID string) (string, error)
}
