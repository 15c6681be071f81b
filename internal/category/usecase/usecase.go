package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/apperror"
	"github.com/fekuna/omnipos-storefront-service/internal/category"
	"github.com/fekuna/omnipos-storefront-service/internal/category/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/pkg/logger"
	"go.uber.org/zap"
)

const (
	batchSize       = 25
	placeholderIcon = "/placeholder.svg"
	treeCacheKey    = "categories:tree"
)

// ErrFetchCategories is the single failure callers see when the tree cannot be built.
var ErrFetchCategories = apperror.New(apperror.CodeUnavailable, "error.fetch_categories", "failed to fetch categories")

// Cache is the part of the redis client the tree cache needs.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
}

type categoryUseCase struct {
	repo     category.Repository
	cache    Cache
	cacheTTL time.Duration
	logger   logger.ZapLogger
}

// NewCategoryUseCase builds the use case. cache may be nil, in which case every call reads the store.
func NewCategoryUseCase(repo category.Repository, cache Cache, cacheTTL time.Duration, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log,
	}
}

func (uc *categoryUseCase) FetchCategories(ctx context.Context) ([]*model.Category, error) {
	if roots, ok := uc.cachedTree(ctx); ok {
		return roots, nil
	}

	flat, err := uc.fetchAll(ctx)
	if err != nil {
		uc.logger.Error("failed to fetch categories", zap.Error(err))
		return nil, apperror.Wrap(err, ErrFetchCategories.Code, ErrFetchCategories.MessageID, ErrFetchCategories.Message)
	}

	for i := range flat {
		flat[i].Icon = uc.resolveIcon(ctx, &flat[i])
		flat[i].Slug = slugify(flat[i].Name)
	}

	roots := buildTree(flat)
	uc.storeTree(ctx, roots)
	return roots, nil
}

func (uc *categoryUseCase) GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	roots, err := uc.FetchCategories(ctx)
	if err != nil {
		return nil, err
	}

	var found *model.Category
	for _, root := range roots {
		if !root.Walk(func(c *model.Category) bool {
			if c.Slug == slug {
				found = c
				return false
			}
			return true
		}) {
			break
		}
	}
	if found == nil {
		return nil, apperror.NotFound("error.category_not_found", "category not found")
	}
	return found, nil
}

// fetchAll pages through the collection by offset until a short batch comes back.
func (uc *categoryUseCase) fetchAll(ctx context.Context) ([]model.Category, error) {
	var all []model.Category
	for offset := 0; ; offset += batchSize {
		batch, err := uc.repo.FindBatch(ctx, &dto.CategoryFilters{Offset: offset, Limit: batchSize})
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < batchSize {
			return all, nil
		}
	}
}

func (uc *categoryUseCase) resolveIcon(ctx context.Context, c *model.Category) string {
	if c.ImageID == nil {
		return placeholderIcon
	}
	url, err := uc.repo.ResolveIcon(ctx, *c.ImageID)
	if err != nil || url == "" {
		uc.logger.Warn("failed to resolve category icon",
			zap.String("category_id", c.ID),
			zap.String("image_id", *c.ImageID),
			zap.Error(err),
		)
		return placeholderIcon
	}
	return url
}

func (uc *categoryUseCase) cachedTree(ctx context.Context) ([]*model.Category, bool) {
	if uc.cache == nil {
		return nil, false
	}
	var roots []*model.Category
	hit, err := uc.cache.GetJSON(ctx, treeCacheKey, &roots)
	if err != nil {
		uc.logger.Warn("category cache read failed", zap.Error(err))
		return nil, false
	}
	return roots, hit
}

func (uc *categoryUseCase) storeTree(ctx context.Context, roots []*model.Category) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.SetJSON(ctx, treeCacheKey, roots, uc.cacheTTL); err != nil {
		uc.logger.Warn("category cache write failed", zap.Error(err))
	}
}
