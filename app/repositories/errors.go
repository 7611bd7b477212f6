package repositories

import "errors"

// Sentinel errors shared by all store implementations. Services translate
// these into user-facing outcomes; controllers map them to status codes.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrSchoolNotFound    = errors.New("school not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrDuplicateProduct  = errors.New("product name already exists in school")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	ErrCodeNotFound      = errors.New("discount code not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrTrackingCodeTaken = errors.New("tracking code already in use")
)
