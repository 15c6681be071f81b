package product

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

type UseCase interface {
	FetchBestSellerProducts(ctx context.Context, limit int) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	SearchProducts(ctx context.Context, query string, limit int) ([]model.Product, error)
	// ReindexProducts copies the whole catalogue into the search index and returns the number indexed.
	ReindexProducts(ctx context.Context) (int, error)
}
