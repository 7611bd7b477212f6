// Package repositories contains the MongoDB persistence layer. Every store
// is defined as an interface so services can be tested against in-memory
// fakes; the Mongo* types are the production implementations.
package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/boofino/boofino/app/models"
)

// ProfilePatch is a partial user update: only non-nil fields are applied.
// WalletDelta is additive, applied with $inc rather than assignment, so two
// concurrent top-ups cannot lose each other.
type ProfilePatch struct {
	Fullname    *string
	Username    *string
	PhoneNumber *string
	ImgURL      *string
	WalletDelta *int64
	SchoolID    *string
}

// Empty reports whether the patch carries no changes.
func (p ProfilePatch) Empty() bool {
	return p.Fullname == nil && p.Username == nil && p.PhoneNumber == nil &&
		p.ImgURL == nil && p.WalletDelta == nil && p.SchoolID == nil
}

// UserStore persists user records.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	ApplyPatch(ctx context.Context, id primitive.ObjectID, patch ProfilePatch) error

	// DebitWallet subtracts amount from the wallet only when the balance
	// covers it, in a single conditional update. Returns
	// ErrInsufficientFunds when it does not.
	DebitWallet(ctx context.Context, id primitive.ObjectID, amount int64) error
}

// MongoUserRepository is the MongoDB-backed UserStore.
type MongoUserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{col: db.Collection("users")}
}

func (r *MongoUserRepository) Create(ctx context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}

	_, err := r.col.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return ErrUsernameTaken
	}
	return err
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *MongoUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *MongoUserRepository) ApplyPatch(ctx context.Context, id primitive.ObjectID, patch ProfilePatch) error {
	if patch.Empty() {
		return nil
	}

	set := bson.M{}
	if patch.Fullname != nil {
		set["fullname"] = *patch.Fullname
	}
	if patch.Username != nil {
		set["username"] = *patch.Username
	}
	if patch.PhoneNumber != nil {
		set["phonenumber"] = *patch.PhoneNumber
	}
	if patch.ImgURL != nil {
		set["img_url"] = *patch.ImgURL
	}
	if patch.SchoolID != nil {
		set["school_id"] = *patch.SchoolID
	}

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}

	// A negative delta is a withdrawal and gets the same conditional guard
	// as DebitWallet, so the wallet can never go below zero.
	filter := bson.M{"_id": id}
	if patch.WalletDelta != nil {
		update["$inc"] = bson.M{"wallet": *patch.WalletDelta}
		if *patch.WalletDelta < 0 {
			filter["wallet"] = bson.M{"$gte": -*patch.WalletDelta}
		}
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if mongo.IsDuplicateKeyError(err) {
		return ErrUsernameTaken
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, ferr := r.FindByID(ctx, id); ferr != nil {
			return ferr
		}
		return ErrInsufficientFunds
	}
	return nil
}

func (r *MongoUserRepository) DebitWallet(ctx context.Context, id primitive.ObjectID, amount int64) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "wallet": bson.M{"$gte": amount}},
		bson.M{"$inc": bson.M{"wallet": -amount}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either the user vanished or the balance no longer covers the
		// amount; distinguish for the caller.
		if _, ferr := r.FindByID(ctx, id); ferr != nil {
			return ferr
		}
		return ErrInsufficientFunds
	}
	return nil
}
