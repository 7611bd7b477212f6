package services

import (
	"context"
	"time"

	"github.com/boofino/boofino/app/models"
	"github.com/boofino/boofino/app/repositories"
)

// DiscountService validates promotional codes against a cart total. Codes
// are created out-of-band; this flow never mutates them.
type DiscountService struct {
	discounts repositories.DiscountStore
	now       func() time.Time
}

func NewDiscountService(discounts repositories.DiscountStore) *DiscountService {
	return &DiscountService{discounts: discounts, now: time.Now}
}

// Validate checks the code and returns it when usable with the given cart
// total. Failure modes, in order: ErrCodeNotFound, ErrDiscountExpired,
// ErrDiscountUsedUp, ErrCartBelowMin.
func (s *DiscountService) Validate(ctx context.Context, code string, cartTotal int64) (*models.DiscountCode, error) {
	d, err := s.discounts.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if d.Expired(s.now()) {
		return nil, ErrDiscountExpired
	}
	if d.Exhausted() {
		return nil, ErrDiscountUsedUp
	}
	if cartTotal < d.MinCartTotal {
		return nil, ErrCartBelowMin
	}
	return d, nil
}
