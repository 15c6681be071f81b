package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const EventStatusChanged = "NotificationStatusChanged"

type StatusChangedEvent struct {
	EventID   string               `json:"event_id"`
	EventType string               `json:"event_type"`
	Payload   StatusChangedPayload `json:"payload"`
	Timestamp time.Time            `json:"timestamp"`
}

type StatusChangedPayload struct {
	NotificationID string              `json:"notification_id"`
	UserID         string              `json:"user_id"`
	ProductID      string              `json:"product_id"`
	ProductName    string              `json:"product_name"`
	From           model.RequestStatus `json:"from"`
	To             model.RequestStatus `json:"to"`
	NotifiedAt     *time.Time          `json:"notified_at,omitempty"`
}

// publishStatusChanged emits a flip keyed by user so one user's events stay ordered.
func (uc *notificationUseCase) publishStatusChanged(ctx context.Context, n *model.ProductNotification, from model.RequestStatus) {
	if uc.publisher == nil {
		return
	}

	event := StatusChangedEvent{
		EventID:   uuid.New().String(),
		EventType: EventStatusChanged,
		Payload: StatusChangedPayload{
			NotificationID: n.ID,
			UserID:         n.UserID,
			ProductID:      n.ProductID,
			ProductName:    n.ProductName,
			From:           from,
			To:             n.RequestStatus,
			NotifiedAt:     n.NotifiedAt,
		},
		Timestamp: uc.now(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		uc.logger.Error("failed to encode status event", zap.Error(err))
		return
	}
	if err := uc.publisher.Publish(ctx, n.UserID, value); err != nil {
		uc.logger.Error("failed to publish status event",
			zap.String("notification_id", n.ID),
			zap.Error(err),
		)
	}
}
