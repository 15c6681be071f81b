package dto

import "github.com/fekuna/omnipos-storefront-service/internal/model"

type NotificationFilters struct {
	UserID    string
	ProductID string
	// Cursor is the id of the last notification of the previous batch.
	Cursor string
	Limit  int
}

type CreateNotificationInput struct {
	UserID    string `json:"-" validate:"required,max=64"`
	ProductID string `json:"product_id" validate:"required,max=64"`
}

// NotificationList is the reconciled list plus the display view derived from it.
type NotificationList struct {
	Notifications []model.ProductNotification `json:"notifications"`
	// Notified holds notified entries, at most one per product.
	Notified      []model.ProductNotification `json:"notified"`
	NotifiedCount int                         `json:"notified_count"`
}

type ReconcileResult struct {
	Checked int `json:"checked"`
	Flipped int `json:"flipped"`
	Failed  int `json:"failed"`
	// Skipped counts notifications left alone because another pass held the owner's lock.
	Skipped int `json:"skipped"`
}

func (r *ReconcileResult) Add(o ReconcileResult) {
	r.Checked += o.Checked
	r.Flipped += o.Flipped
	r.Failed += o.Failed
	r.Skipped += o.Skipped
}
