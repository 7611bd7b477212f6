package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DiscountCode is a promotional code. Codes are created out-of-band and are
// read-only in the request flows: validation checks expiry, remaining usage
// and the minimum cart total, then reports the percentage.
type DiscountCode struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code         string             `bson:"code" json:"code"`
	Percent      int64              `bson:"percent" json:"percent"`
	UsageLimit   int64              `bson:"usage_limit" json:"usageLimit"`
	UsedCount    int64              `bson:"used_count" json:"usedCount"`
	MinCartTotal int64              `bson:"min_cart_total" json:"minCartTotal"`
	ExpiresAt    time.Time          `bson:"expires_at" json:"expiresAt"`
}

// Expired reports whether the code is past its expiry at the given instant.
func (d *DiscountCode) Expired(now time.Time) bool {
	return now.After(d.ExpiresAt)
}

// Exhausted reports whether the usage limit has been reached.
// A zero UsageLimit means unlimited use.
func (d *DiscountCode) Exhausted() bool {
	return d.UsageLimit > 0 && d.UsedCount >= d.UsageLimit
}
