package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/boofino/boofino/app/models"
)

// DiscountStore reads promotional codes. Codes are created out-of-band;
// the request flows only look them up.
type DiscountStore interface {
	FindByCode(ctx context.Context, code string) (*models.DiscountCode, error)
}

// MongoDiscountRepository is the MongoDB-backed DiscountStore.
type MongoDiscountRepository struct {
	col *mongo.Collection
}

func NewDiscountRepository(db *mongo.Database) *MongoDiscountRepository {
	return &MongoDiscountRepository{col: db.Collection("discount_codes")}
}

func (r *MongoDiscountRepository) FindByCode(ctx context.Context, code string) (*models.DiscountCode, error) {
	var d models.DiscountCode
	err := r.col.FindOne(ctx, bson.M{"code": code}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrCodeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}
