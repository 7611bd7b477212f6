package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a marketplace account. Wallet is an integer toman balance and is
// never negative; the debit path enforces that with a conditional update.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Fullname     string             `bson:"fullname" json:"fullname"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"password_hash" json:"-"` // bcrypt, never serialised
	PhoneNumber  string             `bson:"phonenumber" json:"phonenumber"`
	IsAdmin      bool               `bson:"is_admin" json:"is_admin"`
	ImgURL       string             `bson:"img_url,omitempty" json:"imgUrl,omitempty"`
	Wallet       int64              `bson:"wallet" json:"wallet"`
	SchoolID     string             `bson:"school_id,omitempty" json:"schoolId,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}
