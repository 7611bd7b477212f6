// Package seeders inserts a demo data set for local development: one
// school with a small buffet catalog, two discount codes, a school admin
// and a student with a charged wallet.
package seeders

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/boofino/boofino/app/models"
	"github.com/boofino/boofino/pkg/auth"
)

const demoSchoolID = "sch-1001"

func demoProducts() []models.Product {
	now := time.Now()
	return []models.Product{
		{
			ID: primitive.NewObjectID(), Name: "ساندویچ مرغ", Group: "غذا",
			Price: 45000, Off: 5000, FinalPrice: 40000, OldPrice: 45000,
			IsDiscount: true, ItemCount: 50, DateTime: now,
		},
		{
			ID: primitive.NewObjectID(), Name: "آبمیوه پرتقال", Group: "نوشیدنی",
			Price: 20000, FinalPrice: 20000, ItemCount: 120, DateTime: now,
		},
		{
			ID: primitive.NewObjectID(), Name: "کیک شکلاتی", Group: "میان وعده",
			Price: 25000, FinalPrice: 25000, ItemCount: 80, DateTime: now,
		},
	}
}

// RunAll upserts the demo records. Running it twice leaves one copy of
// everything.
func RunAll(ctx context.Context, db *mongo.Database) error {
	upsert := options.Replace().SetUpsert(true)

	school := models.School{
		SchoolID: demoSchoolID,
		Name:     "دبیرستان شهید بهشتی",
		Address:  "خیابان انقلاب",
		City:     "تهران",
		State:    "تهران",
		Products: demoProducts(),
	}
	if _, err := db.Collection("schools").ReplaceOne(ctx,
		bson.M{"school_id": school.SchoolID}, school, upsert); err != nil {
		return fmt.Errorf("seed school: %w", err)
	}

	users := []struct {
		username string
		fullname string
		admin    bool
		wallet   int64
	}{
		{"admin", "مدیر بوفه", true, 0},
		{"student", "دانش آموز نمونه", false, 500000},
	}
	for _, u := range users {
		hash, err := auth.HashPassword("password123")
		if err != nil {
			return err
		}
		doc := models.User{
			Fullname:     u.fullname,
			Username:     u.username,
			PasswordHash: hash,
			PhoneNumber:  "09120000000",
			IsAdmin:      u.admin,
			Wallet:       u.wallet,
			SchoolID:     demoSchoolID,
			CreatedAt:    time.Now(),
		}
		if _, err := db.Collection("users").ReplaceOne(ctx,
			bson.M{"username": u.username}, doc, upsert); err != nil {
			return fmt.Errorf("seed user %s: %w", u.username, err)
		}
	}

	discounts := []models.DiscountCode{
		{
			Code: "WELCOME10", Percent: 10, UsageLimit: 100,
			MinCartTotal: 50000, ExpiresAt: time.Now().AddDate(0, 3, 0),
		},
		{
			Code: "NOWRUZ", Percent: 25, UsageLimit: 0,
			MinCartTotal: 100000, ExpiresAt: time.Now().AddDate(0, 1, 0),
		},
	}
	for _, d := range discounts {
		if _, err := db.Collection("discount_codes").ReplaceOne(ctx,
			bson.M{"code": d.Code}, d, upsert); err != nil {
			return fmt.Errorf("seed discount %s: %w", d.Code, err)
		}
	}

	return nil
}
