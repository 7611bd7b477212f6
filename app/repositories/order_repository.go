package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/boofino/boofino/app/models"
)

// OrderStore persists the order ledger.
type OrderStore interface {
	// Create inserts the order. The tracking code is covered by a unique
	// index; Create returns ErrTrackingCodeTaken on a collision so the
	// caller can redraw and retry.
	Create(ctx context.Context, o *models.Order) error
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	FindByTrackingCode(ctx context.Context, code string) (*models.Order, error)
	UpdateStatus(ctx context.Context, code, status string) error
}

// MongoOrderRepository is the MongoDB-backed OrderStore.
type MongoOrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{col: db.Collection("orders")}
}

func (r *MongoOrderRepository) Create(ctx context.Context, o *models.Order) error {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}

	_, err := r.col.InsertOne(ctx, o)
	if mongo.IsDuplicateKeyError(err) {
		return ErrTrackingCodeTaken
	}
	return err
}

func (r *MongoOrderRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	cur, err := r.col.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var orders []models.Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *MongoOrderRepository) FindByTrackingCode(ctx context.Context, code string) (*models.Order, error) {
	var o models.Order
	err := r.col.FindOne(ctx, bson.M{"tracking_code": code}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *MongoOrderRepository) UpdateStatus(ctx context.Context, code, status string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"tracking_code": code},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}
