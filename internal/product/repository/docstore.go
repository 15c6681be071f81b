package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/docstore"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/product/dto"
)

// listingFields is the projection used for product cards.
var listingFields = []string{
	"name",
	"price",
	"discountPrice",
	"stockQuantity",
	"categoryId",
	"images",
	"tags",
	"isOnSale",
	"isWholesaleProduct",
}

// productDocument is the stored shape of a product. Numbers arrive as numbers or strings.
type productDocument struct {
	ID                 string          `json:"$id"`
	CreatedAt          time.Time       `json:"$createdAt"`
	UpdatedAt          time.Time       `json:"$updatedAt"`
	Name               string          `json:"name"`
	Price              json.RawMessage `json:"price"`
	DiscountPrice      json.RawMessage `json:"discountPrice"`
	StockQuantity      json.RawMessage `json:"stockQuantity"`
	CategoryID         string          `json:"categoryId"`
	Images             []string        `json:"images"`
	Tags               []string        `json:"tags"`
	IsOnSale           bool            `json:"isOnSale"`
	IsWholesaleProduct bool            `json:"isWholesaleProduct"`
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

func (r *DocstoreRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	doc, err := r.client.GetDocument(ctx, r.collection, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	p, err := decodeProduct(*doc)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *DocstoreRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, error) {
	var queries []docstore.Query
	if f.BestSellersOnly {
		queries = append(queries,
			docstore.Equal("isOnSale", true),
			docstore.Equal("isWholesaleProduct", false),
			docstore.Select(listingFields...),
		)
	}
	if f.SearchQuery != "" {
		queries = append(queries,
			docstore.Search("name", f.SearchQuery),
			docstore.Equal("isWholesaleProduct", false),
		)
	}
	if f.Cursor != "" {
		queries = append(queries, docstore.CursorAfter(f.Cursor))
	}
	queries = append(queries, docstore.Limit(f.Limit))

	list, err := r.client.ListDocuments(ctx, r.collection, queries...)
	if err != nil {
		return nil, err
	}

	products := make([]model.Product, 0, len(list.Documents))
	for _, doc := range list.Documents {
		p, err := decodeProduct(doc)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func decodeProduct(doc docstore.Document) (model.Product, error) {
	var raw productDocument
	if err := doc.Decode(&raw); err != nil {
		return model.Product{}, fmt.Errorf("decode product %s: %w", doc.ID, err)
	}
	return raw.toModel(), nil
}

func (d productDocument) toModel() model.Product {
	p := model.Product{
		BaseModel: model.BaseModel{
			ID:        d.ID,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
		Name:               d.Name,
		Price:              model.ParseNumeric(d.Price),
		StockQuantity:      model.ParseNumeric(d.StockQuantity),
		CategoryID:         d.CategoryID,
		Images:             d.Images,
		Tags:               d.Tags,
		IsOnSale:           d.IsOnSale,
		IsWholesaleProduct: d.IsWholesaleProduct,
	}
	if len(d.DiscountPrice) > 0 && string(d.DiscountPrice) != "null" {
		dp := model.ParseNumeric(d.DiscountPrice)
		p.DiscountPrice = &dp
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p
}
