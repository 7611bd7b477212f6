package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. New orders start as pending; the fulfillment service moves
// them forward. Canceled is reachable from any state.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusDelivered  = "delivered"
	OrderStatusCanceled   = "canceled"
)

// Order is a completed purchase. Line items are immutable snapshots of the
// product at purchase time, so later edits or deletions of the product do
// not rewrite history. TotalPrice always equals the sum of
// UnitPrice*Count over the items.
type Order struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"userId"`
	SchoolID     string             `bson:"school_id" json:"schoolId"`
	Items        []OrderItem        `bson:"items" json:"items"`
	TotalPrice   int64              `bson:"total_price" json:"totalPrice"`
	Status       string             `bson:"status" json:"status"`
	TrackingCode string             `bson:"tracking_code" json:"trackingCode"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
}

// OrderItem is a snapshot of one purchased product line.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	ImgURL    string             `bson:"img_url,omitempty" json:"imgUrl,omitempty"`
	UnitPrice int64              `bson:"unit_price" json:"unitPrice"`
	Count     int64              `bson:"count" json:"count"`
}

// ValidStatusTransition reports whether an order may move from one status to
// another: pending → processing → delivered, and any state may be canceled.
func ValidStatusTransition(from, to string) bool {
	if to == OrderStatusCanceled {
		return from != OrderStatusCanceled
	}
	switch from {
	case OrderStatusPending:
		return to == OrderStatusProcessing
	case OrderStatusProcessing:
		return to == OrderStatusDelivered
	}
	return false
}
