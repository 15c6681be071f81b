package category

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

type UseCase interface {
	// FetchCategories returns the category forest: roots with children nested.
	FetchCategories(ctx context.Context) ([]*model.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error)
}
