package usecase

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/fekuna/omnipos-storefront-service/internal/apperror"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/product"
	"github.com/fekuna/omnipos-storefront-service/internal/product/dto"
	"github.com/fekuna/omnipos-storefront-service/pkg/logger"
	"github.com/fekuna/omnipos-storefront-service/pkg/search"
	"go.uber.org/zap"
)

const (
	DefaultBatchSize   = 100
	defaultSearchLimit = 20
)

// ErrFetchProducts is the single failure callers see when a product listing cannot be assembled.
var ErrFetchProducts = apperror.New(apperror.CodeUnavailable, "error.fetch_products", "failed to fetch products")

const indexMapping = `{
	"mappings": {
		"properties": {
			"name": { "type": "text" },
			"category_id": { "type": "keyword" },
			"tags": { "type": "keyword" },
			"price": { "type": "double" },
			"stock_quantity": { "type": "double" },
			"is_on_sale": { "type": "boolean" },
			"is_wholesale_product": { "type": "boolean" },
			"created_at": { "type": "date" }
		}
	}
}`

// SearchIndex is the part of the Elasticsearch client the use case needs.
type SearchIndex interface {
	CreateIndex(ctx context.Context, index, mapping string) error
	Index(ctx context.Context, index, id string, doc any) error
	Search(ctx context.Context, index string, query map[string]any) (*search.SearchResponse, error)
}

type productUseCase struct {
	repo      product.Repository
	es        SearchIndex
	index     string
	batchSize int
	logger    logger.ZapLogger
}

// NewProductUseCase builds the use case. es may be nil when no cluster is configured.
func NewProductUseCase(repo product.Repository, es SearchIndex, index string, batchSize int, log logger.ZapLogger) product.UseCase {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &productUseCase{
		repo:      repo,
		es:        es,
		index:     index,
		batchSize: batchSize,
		logger:    log,
	}
}

// FetchBestSellerProducts walks the on-sale retail catalogue with a cursor until limit
// products are collected or the store runs dry.
func (uc *productUseCase) FetchBestSellerProducts(ctx context.Context, limit int) ([]model.Product, error) {
	products := make([]model.Product, 0, max(limit, 0))
	if limit <= 0 {
		return products, nil
	}

	cursor := ""
	for len(products) < limit {
		size := min(uc.batchSize, limit-len(products))
		batch, err := uc.repo.FindAll(ctx, &dto.ProductFilters{
			BestSellersOnly: true,
			Cursor:          cursor,
			Limit:           size,
		})
		if err != nil {
			uc.logger.Error("failed to fetch best sellers", zap.Int("fetched", len(products)), zap.Error(err))
			return nil, fetchError(err)
		}

		products = append(products, batch...)
		if len(batch) < size {
			break
		}
		cursor = batch[len(batch)-1].ID
	}

	uc.logMalformed(products)
	return products, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fetchError(err)
	}
	if p == nil {
		return nil, apperror.NotFound("error.product_not_found", "product not found")
	}
	uc.logMalformed([]model.Product{*p})
	return p, nil
}

// SearchProducts asks Elasticsearch first and falls back to the document store's name search.
func (uc *productUseCase) SearchProducts(ctx context.Context, query string, limit int) ([]model.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.Validation("search query is required")
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	if uc.es != nil {
		products, err := uc.searchIndex(ctx, query, limit)
		if err == nil {
			return products, nil
		}
		uc.logger.Error("ES search failed, falling back to docstore", zap.Error(err))
	}

	products, err := uc.repo.FindAll(ctx, &dto.ProductFilters{SearchQuery: query, Limit: limit})
	if err != nil {
		return nil, fetchError(err)
	}
	return products, nil
}

func (uc *productUseCase) searchIndex(ctx context.Context, query string, limit int) ([]model.Product, error) {
	q := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": []map[string]any{
					{
						"multi_match": map[string]any{
							"query":     query,
							"fields":    []string{"name^3", "tags"},
							"fuzziness": "AUTO",
						},
					},
				},
				"filter": []map[string]any{
					{"term": map[string]any{"is_wholesale_product": false}},
				},
			},
		},
		"size": limit,
	}

	res, err := uc.es.Search(ctx, uc.index, q)
	if err != nil {
		return nil, err
	}

	products := make([]model.Product, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err != nil {
			uc.logger.Warn("skipping undecodable search hit", zap.String("id", hit.ID), zap.Error(err))
			continue
		}
		if p.ID == "" {
			p.ID = hit.ID
		}
		products = append(products, p)
	}
	return products, nil
}

func (uc *productUseCase) ReindexProducts(ctx context.Context) (int, error) {
	if uc.es == nil {
		return 0, apperror.New(apperror.CodeUnavailable, "error.unavailable", "search index is not configured")
	}
	if err := uc.es.CreateIndex(ctx, uc.index, indexMapping); err != nil {
		return 0, err
	}

	indexed := 0
	cursor := ""
	for {
		batch, err := uc.repo.FindAll(ctx, &dto.ProductFilters{Cursor: cursor, Limit: uc.batchSize})
		if err != nil {
			return indexed, fetchError(err)
		}

		for i := range batch {
			if err := uc.es.Index(ctx, uc.index, batch[i].ID, &batch[i]); err != nil {
				uc.logger.Error("failed to index product", zap.String("product_id", batch[i].ID), zap.Error(err))
				continue
			}
			indexed++
		}

		if len(batch) < uc.batchSize {
			break
		}
		cursor = batch[len(batch)-1].ID
	}

	uc.logger.Info("products reindexed", zap.String("index", uc.index), zap.Int("count", indexed))
	return indexed, nil
}

func (uc *productUseCase) logMalformed(products []model.Product) {
	for _, p := range products {
		if !p.Price.Valid() || !p.StockQuantity.Valid() {
			uc.logger.Warn("product has malformed numeric fields",
				zap.String("product_id", p.ID),
				zap.Bool("price_valid", p.Price.Valid()),
				zap.Bool("stock_valid", p.StockQuantity.Valid()),
			)
		}
	}
}

func fetchError(err error) error {
	return apperror.Wrap(err, ErrFetchProducts.Code, ErrFetchProducts.MessageID, ErrFetchProducts.Message)
}
