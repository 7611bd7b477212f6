package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/boofino/boofino/app/models"
	"github.com/boofino/boofino/app/repositories"
	"github.com/boofino/boofino/pkg/logger"
)

// OrderService reads the order ledger and applies fulfillment status
// updates.
type OrderService struct {
	orders repositories.OrderStore
}

func NewOrderService(orders repositories.OrderStore) *OrderService {
	return &OrderService{orders: orders}
}

// ListForUser returns the buyer's orders, newest first.
func (s *OrderService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// Get returns a single order by tracking code. Only the buyer, or an admin
// of the order's school, may read it; anyone else gets ErrNotOrderOwner.
func (s *OrderService) Get(ctx context.Context, code string, viewer *models.User) (*models.Order, error) {
	o, err := s.orders.FindByTrackingCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if o.UserID != viewer.ID && !(viewer.IsAdmin && viewer.SchoolID == o.SchoolID) {
		return nil, ErrNotOrderOwner
	}
	return o, nil
}

// UpdateStatus moves an order through its lifecycle on behalf of the
// fulfillment service. Invalid transitions return ErrBadTransition.
func (s *OrderService) UpdateStatus(ctx context.Context, code, status string) (*models.Order, error) {
	o, err := s.orders.FindByTrackingCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !models.ValidStatusTransition(o.Status, status) {
		return nil, ErrBadTransition
	}
	if err := s.orders.UpdateStatus(ctx, code, status); err != nil {
		return nil, err
	}

	logger.WithCtx(ctx).Info("order status updated",
		"tracking_code", code,
		"from", o.Status,
		"to", status,
	)
	o.Status = status
	return o, nil
}
