package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/fekuna/omnipos-storefront-service/internal/apperror"
	"github.com/fekuna/omnipos-storefront-service/internal/docstore"
	"github.com/fekuna/omnipos-storefront-service/internal/docstore/docstoretest"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/product/repository"
	"github.com/fekuna/omnipos-storefront-service/pkg/logger"
	"github.com/fekuna/omnipos-storefront-service/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const collection = "products"

func seedProducts(mem *docstoretest.Memory, n int, onSale bool) {
	for i := 0; i < n; i++ {
		mem.Seed(collection, fmt.Sprintf("p%03d", i), map[string]any{
			"name":               fmt.Sprintf("Product %d", i),
			"price":              "12.50",
			"stockQuantity":      i,
			"categoryId":         "c1",
			"images":             []string{"img"},
			"tags":               []string{"fresh"},
			"isOnSale":           onSale,
			"isWholesaleProduct": false,
		})
	}
}

func newUseCase(mem *docstoretest.Memory, es SearchIndex, batch int) *productUseCase {
	repo := repository.NewDocstoreRepository(mem, collection)
	return NewProductUseCase(repo, es, "products", batch, logger.NewNop()).(*productUseCase)
}

func TestFetchBestSellerProducts_LimitSpansTwoBatches(t *testing.T) {
	mem := docstoretest.NewMemory()
	seedProducts(mem, 30, true)
	uc := newUseCase(mem, nil, 10)

	products, err := uc.FetchBestSellerProducts(context.Background(), 15)
	require.NoError(t, err)
	assert.Len(t, products, 15)
	require.Equal(t, 2, mem.ListCallCount(collection))

	first, second := mem.ListCalls[0].Queries, mem.ListCalls[1].Queries
	assert.Contains(t, first, docstore.Limit(10))
	assert.NotContains(t, first, docstore.CursorAfter("p009"))
	assert.Contains(t, second, docstore.Limit(5))
	assert.Contains(t, second, docstore.CursorAfter("p009"))

	assert.Equal(t, "p000", products[0].ID)
	assert.Equal(t, "p014", products[14].ID)
	assert.Equal(t, model.Numeric(12.5), products[0].Price)
}

func TestFetchBestSellerProducts_ShortBatchStops(t *testing.T) {
	mem := docstoretest.NewMemory()
	seedProducts(mem, 7, true)
	uc := newUseCase(mem, nil, 10)

	products, err := uc.FetchBestSellerProducts(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, products, 7)
	assert.Equal(t, 1, mem.ListCallCount(collection))
}

func TestFetchBestSellerProducts_Filters(t *testing.T) {
	mem := docstoretest.NewMemory()
	seedProducts(mem, 3, true)
	mem.Seed(collection, "off-sale", map[string]any{"name": "x", "isOnSale": false, "isWholesaleProduct": false})
	mem.Seed(collection, "wholesale", map[string]any{"name": "y", "isOnSale": true, "isWholesaleProduct": true})
	uc := newUseCase(mem, nil, 10)

	products, err := uc.FetchBestSellerProducts(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, products, 3)
	for _, p := range products {
		assert.True(t, p.IsOnSale)
		assert.False(t, p.IsWholesaleProduct)
	}

	queries := mem.ListCalls[0].Queries
	assert.Contains(t, queries, docstore.Equal("isOnSale", true))
	assert.Contains(t, queries, docstore.Equal("isWholesaleProduct", false))
}

func TestFetchBestSellerProducts_NonPositiveLimit(t *testing.T) {
	mem := docstoretest.NewMemory()
	uc := newUseCase(mem, nil, 10)

	for _, limit := range []int{0, -3} {
		products, err := uc.FetchBestSellerProducts(context.Background(), limit)
		require.NoError(t, err)
		assert.NotNil(t, products)
		assert.Empty(t, products)
	}
	assert.Equal(t, 0, mem.ListCallCount(collection))
}

func TestFetchBestSellerProducts_MalformedNumbers(t *testing.T) {
	mem := docstoretest.NewMemory()
	mem.Seed(collection, "bad", map[string]any{
		"name":               "Bad",
		"price":              "twelve",
		"stockQuantity":      nil,
		"isOnSale":           true,
		"isWholesaleProduct": false,
	})
	uc := newUseCase(mem, nil, 10)

	products, err := uc.FetchBestSellerProducts(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.False(t, products[0].Price.Valid())
	assert.False(t, products[0].StockQuantity.Valid())
	assert.Nil(t, products[0].DiscountPrice)

	raw, err := json.Marshal(products[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"price":null`)
}

func TestFetchBestSellerProducts_ErrorDiscardsPartial(t *testing.T) {
	mem := docstoretest.NewMemory()
	mem.ListErr[collection] = errors.New("rate limited")
	uc := newUseCase(mem, nil, 10)

	products, err := uc.FetchBestSellerProducts(context.Background(), 15)
	assert.Nil(t, products)
	assert.ErrorIs(t, err, ErrFetchProducts)
}

func TestGetProduct(t *testing.T) {
	mem := docstoretest.NewMemory()
	seedProducts(mem, 1, true)
	uc := newUseCase(mem, nil, 10)

	p, err := uc.GetProduct(context.Background(), "p000")
	require.NoError(t, err)
	assert.Equal(t, "Product 0", p.Name)

	_, err = uc.GetProduct(context.Background(), "missing")
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeNotFound, appErr.Code)
}

type fakeIndex struct {
	docs      map[string]any
	searchErr error
	hits      []search.Hit
	created   int
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{docs: map[string]any{}}
}

func (f *fakeIndex) CreateIndex(ctx context.Context, index, mapping string) error {
	f.created++
	return nil
}

func (f *fakeIndex) Index(ctx context.Context, index, id string, doc any) error {
	f.docs[id] = doc
	return nil
}

func (f *fakeIndex) Search(ctx context.Context, index string, query map[string]any) (*search.SearchResponse, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	res := &search.SearchResponse{}
	res.Hits.Hits = f.hits
	res.Hits.Total.Value = len(f.hits)
	return res, nil
}

func TestSearchProducts_UsesIndex(t *testing.T) {
	mem := docstoretest.NewMemory()
	es := newFakeIndex()
	es.hits = []search.Hit{{ID: "p7", Source: json.RawMessage(`{"id":"p7","name":"Mango","price":3}`)}}
	uc := newUseCase(mem, es, 10)

	products, err := uc.SearchProducts(context.Background(), "mango", 5)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Mango", products[0].Name)
	assert.Equal(t, 0, mem.ListCallCount(collection))
}

func TestSearchProducts_FallsBackToDocstore(t *testing.T) {
	mem := docstoretest.NewMemory()
	seedProducts(mem, 12, true)
	mem.Seed(collection, "bulk", map[string]any{
		"name":               "Product 1 crate",
		"price":              "99",
		"stockQuantity":      40,
		"isWholesaleProduct": true,
	})
	es := newFakeIndex()
	es.searchErr = errors.New("cluster red")
	uc := newUseCase(mem, es, 10)

	products, err := uc.SearchProducts(context.Background(), "product 1", 5)
	require.NoError(t, err)
	// "Product 1", "Product 10", "Product 11"
	assert.Len(t, products, 3)
	assert.Contains(t, mem.ListCalls[0].Queries, docstore.Search("name", "product 1"))
	assert.Contains(t, mem.ListCalls[0].Queries, docstore.Equal("isWholesaleProduct", false))
	for _, p := range products {
		assert.NotEqual(t, "bulk", p.ID)
	}
}

func TestSearchProducts_EmptyQuery(t *testing.T) {
	uc := newUseCase(docstoretest.NewMemory(), nil, 10)
	_, err := uc.SearchProducts(context.Background(), "  ", 5)
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestReindexProducts(t *testing.T) {
	mem := docstoretest.NewMemory()
	seedProducts(mem, 10, true)
	for i := 0; i < 13; i++ {
		mem.Seed(collection, fmt.Sprintf("w%03d", i), map[string]any{"name": "wholesale", "isWholesaleProduct": true})
	}
	es := newFakeIndex()
	uc := newUseCase(mem, es, 10)

	n, err := uc.ReindexProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 23, n)
	assert.Len(t, es.docs, 23)
	assert.Equal(t, 1, es.created)
	assert.Equal(t, 3, mem.ListCallCount(collection))
}

func TestReindexProducts_NoIndex(t *testing.T) {
	uc := newUseCase(docstoretest.NewMemory(), nil, 10)
	_, err := uc.ReindexProducts(context.Background())
	assert.Error(t, err)
}
