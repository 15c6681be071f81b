package notification

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/notification/dto"
)

type UseCase interface {
	// ListNotifications reconciles the user's notifications against live stock and returns them
	// with the display view.
	ListNotifications(ctx context.Context, userID string) (*dto.NotificationList, error)
	CreateNotification(ctx context.Context, input *dto.CreateNotificationInput) (*model.ProductNotification, error)
	MarkRead(ctx context.Context, userID, id string) (*model.ProductNotification, error)

	// ReconcileAll sweeps every notification in the store.
	ReconcileAll(ctx context.Context) (*dto.ReconcileResult, error)
	// ReconcileProduct sweeps the notifications that watch one product.
	ReconcileProduct(ctx context.Context, productID string) (*dto.ReconcileResult, error)
}
