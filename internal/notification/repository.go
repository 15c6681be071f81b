package notification

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/notification/dto"
)

type Repository interface {
	FindAll(ctx context.Context, filters *dto.NotificationFilters) ([]model.ProductNotification, error)
	FindByID(ctx context.Context, id string) (*model.ProductNotification, error)
	Create(ctx context.Context, n *model.ProductNotification) error
	// UpdateStatus persists RequestStatus and NotifiedAt only.
	UpdateStatus(ctx context.Context, n *model.ProductNotification) error
	MarkRead(ctx context.Context, id string) error
}
