package repository

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-storefront-service/internal/docstore"
	"github.com/fekuna/omnipos-storefront-service/internal/docstore/docstoretest"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/product/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindByID_DecodesLooseNumbers(t *testing.T) {
	mem := docstoretest.NewMemory()
	mem.Seed("products", "p1", map[string]any{
		"name":          "Rice 5kg",
		"price":         "65000",
		"discountPrice": 59000.5,
		"stockQuantity": " 12 ",
		"tags":          nil,
	})
	mem.Seed("products", "p2", map[string]any{
		"name":          "Oil",
		"price":         12,
		"discountPrice": nil,
		"stockQuantity": "n/a",
	})
	repo := NewDocstoreRepository(mem, "products")

	p, err := repo.FindByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, model.Numeric(65000), p.Price)
	require.NotNil(t, p.DiscountPrice)
	assert.Equal(t, model.Numeric(59000.5), *p.DiscountPrice)
	assert.Equal(t, model.Numeric(12), p.StockQuantity)
	assert.NotNil(t, p.Tags)

	p, err = repo.FindByID(context.Background(), "p2")
	require.NoError(t, err)
	assert.Nil(t, p.DiscountPrice)
	assert.False(t, p.StockQuantity.Valid())
	assert.False(t, p.InStock())
}

func TestFindByID_Missing(t *testing.T) {
	repo := NewDocstoreRepository(docstoretest.NewMemory(), "products")
	p, err := repo.FindByID(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestFindAll_BestSellerQueries(t *testing.T) {
	mem := docstoretest.NewMemory()
	mem.Seed("products", "p9", map[string]any{"name": "Tea", "isOnSale": true, "isWholesaleProduct": false})
	repo := NewDocstoreRepository(mem, "products")

	_, err := repo.FindAll(context.Background(), &dto.ProductFilters{BestSellersOnly: true, Cursor: "p9", Limit: 10})
	require.NoError(t, err)

	require.Len(t, mem.ListCalls, 1)
	assert.Equal(t, []docstore.Query{
		docstore.Equal("isOnSale", true),
		docstore.Equal("isWholesaleProduct", false),
		docstore.Select(listingFields...),
		docstore.CursorAfter("p9"),
		docstore.Limit(10),
	}, mem.ListCalls[0].Queries)
}
