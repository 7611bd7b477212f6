package services

import "errors"

// Semantic failures the service layer produces on top of the repository
// sentinels. Controllers translate both families into HTTP responses.
var (
	ErrWrongPassword   = errors.New("wrong password")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrNoSchool        = errors.New("user is not connected to a school")
	ErrPriceMismatch   = errors.New("client total does not match server total")
	ErrDiscountExpired = errors.New("discount code expired")
	ErrDiscountUsedUp  = errors.New("discount code usage limit reached")
	ErrCartBelowMin    = errors.New("cart total below discount minimum")
	ErrBadTransition   = errors.New("invalid order status transition")
	ErrNotOrderOwner   = errors.New("order belongs to another user")
)
