package model

import (
	"math"
	"time"
)

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusNotified RequestStatus = "notified"
)

func (s RequestStatus) Valid() bool {
	return s == StatusPending || s == StatusNotified
}

// ProductNotification is a user's restock alert for one product.
type ProductNotification struct {
	BaseModel
	UserID        string        `json:"user_id"`
	ProductID     string        `json:"product_id"`
	ProductName   string        `json:"product_name"`
	RequestStatus RequestStatus `json:"request_status"`
	IsRead        bool          `json:"is_read"`
	NotifiedAt    *time.Time    `json:"notified_at,omitempty"`
}

// Reconcile moves the notification to the state implied by the live stock level and
// reports whether anything changed. A NaN stock never triggers a transition.
func (n *ProductNotification) Reconcile(stock float64, now time.Time) bool {
	if math.IsNaN(stock) {
		return false
	}

	switch {
	case n.RequestStatus == StatusPending && stock > 0:
		n.RequestStatus = StatusNotified
		n.NotifiedAt = &now
		return true
	case n.RequestStatus == StatusNotified && stock <= 0:
		n.RequestStatus = StatusPending
		n.NotifiedAt = nil
		return true
	}
	return false
}
