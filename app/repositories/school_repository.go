package repositories

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/boofino/boofino/app/models"
)

// SchoolFilter narrows a school search. Name is a case-insensitive substring
// match; City and State are exact matches when non-empty.
type SchoolFilter struct {
	City  string
	State string
	Name  string
}

// ProductPatch is a partial product update. Pointer fields so explicitly
// supplied zero values (price 0, stock 0) are applied, matching the
// original partial-update semantics.
type ProductPatch struct {
	Name       *string
	ImgURL     *string
	Price      *int64
	Off        *int64
	Group      *string
	FinalPrice *int64
	SellCount  *int64
	ItemCount  *int64
	OldPrice   *int64
	IsDiscount *bool
}

// Empty reports whether the patch carries no changes.
func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.ImgURL == nil && p.Price == nil && p.Off == nil &&
		p.Group == nil && p.FinalPrice == nil && p.SellCount == nil &&
		p.ItemCount == nil && p.OldPrice == nil && p.IsDiscount == nil
}

// SchoolStore persists schools and their embedded product catalogs.
type SchoolStore interface {
	All(ctx context.Context) ([]models.School, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.School, error)
	FindBySchoolID(ctx context.Context, schoolID string) (*models.School, error)
	Search(ctx context.Context, filter SchoolFilter) ([]models.School, error)

	AddProduct(ctx context.Context, schoolID string, p models.Product) error
	UpdateProduct(ctx context.Context, schoolID, name string, patch ProductPatch) error
	RemoveProduct(ctx context.Context, schoolID, name string) error
	RemoveProducts(ctx context.Context, schoolID string, names []string) (int64, error)

	// DecrementStock takes qty units of a product only when the remaining
	// stock covers it, in a single conditional update. Returns
	// ErrInsufficientStock when it does not and ErrProductNotFound when the
	// product is not in the school's catalog.
	DecrementStock(ctx context.Context, schoolID string, productID primitive.ObjectID, qty int64) error
}

// MongoSchoolRepository is the MongoDB-backed SchoolStore.
type MongoSchoolRepository struct {
	col *mongo.Collection
}

func NewSchoolRepository(db *mongo.Database) *MongoSchoolRepository {
	return &MongoSchoolRepository{col: db.Collection("schools")}
}

func (r *MongoSchoolRepository) All(ctx context.Context) ([]models.School, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var schools []models.School
	if err := cur.All(ctx, &schools); err != nil {
		return nil, err
	}
	return schools, nil
}

func (r *MongoSchoolRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.School, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoSchoolRepository) FindBySchoolID(ctx context.Context, schoolID string) (*models.School, error) {
	return r.findOne(ctx, bson.M{"school_id": schoolID})
}

func (r *MongoSchoolRepository) findOne(ctx context.Context, filter bson.M) (*models.School, error) {
	var s models.School
	err := r.col.FindOne(ctx, filter).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSchoolNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *MongoSchoolRepository) Search(ctx context.Context, filter SchoolFilter) ([]models.School, error) {
	query := bson.M{}
	if filter.City != "" {
		query["city"] = filter.City
	}
	if filter.State != "" {
		query["state"] = filter.State
	}
	if filter.Name != "" {
		query["name"] = bson.M{"$regex": regexp.QuoteMeta(filter.Name), "$options": "i"}
	}

	cur, err := r.col.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var schools []models.School
	if err := cur.All(ctx, &schools); err != nil {
		return nil, err
	}
	return schools, nil
}

func (r *MongoSchoolRepository) AddProduct(ctx context.Context, schoolID string, p models.Product) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}

	// The name-exclusion filter makes the duplicate check and the push a
	// single atomic operation; two concurrent adds of the same name cannot
	// both succeed.
	res, err := r.col.UpdateOne(ctx,
		bson.M{"school_id": schoolID, "products.name": bson.M{"$ne": p.Name}},
		bson.M{"$push": bson.M{"products": p}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, ferr := r.FindBySchoolID(ctx, schoolID); ferr != nil {
			return ferr
		}
		return ErrDuplicateProduct
	}
	return nil
}

func (r *MongoSchoolRepository) UpdateProduct(ctx context.Context, schoolID, name string, patch ProductPatch) error {
	if patch.Empty() {
		return nil
	}

	set := bson.M{}
	setField := func(key string, v interface{}) { set["products.$."+key] = v }
	if patch.Name != nil {
		setField("name", *patch.Name)
	}
	if patch.ImgURL != nil {
		setField("img_url", *patch.ImgURL)
	}
	if patch.Price != nil {
		setField("price", *patch.Price)
	}
	if patch.Off != nil {
		setField("off", *patch.Off)
	}
	if patch.Group != nil {
		setField("group", *patch.Group)
	}
	if patch.FinalPrice != nil {
		setField("final_price", *patch.FinalPrice)
	}
	if patch.SellCount != nil {
		setField("sell_count", *patch.SellCount)
	}
	if patch.ItemCount != nil {
		setField("item_count", *patch.ItemCount)
	}
	if patch.OldPrice != nil {
		setField("old_price", *patch.OldPrice)
	}
	if patch.IsDiscount != nil {
		setField("is_discount", *patch.IsDiscount)
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"school_id": schoolID, "products.name": name},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, ferr := r.FindBySchoolID(ctx, schoolID); ferr != nil {
			return ferr
		}
		return ErrProductNotFound
	}
	return nil
}

func (r *MongoSchoolRepository) RemoveProduct(ctx context.Context, schoolID, name string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"school_id": schoolID},
		bson.M{"$pull": bson.M{"products": bson.M{"name": name}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrSchoolNotFound
	}
	if res.ModifiedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *MongoSchoolRepository) RemoveProducts(ctx context.Context, schoolID string, names []string) (int64, error) {
	// One round trip: the pre-image returned by FindOneAndUpdate tells us
	// exactly which of the names the $pull removed, so a concurrent catalog
	// change cannot skew the count.
	var before models.School
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"school_id": schoolID},
		bson.M{"$pull": bson.M{"products": bson.M{"name": bson.M{"$in": names}}}},
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&before)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, ErrSchoolNotFound
	}
	if err != nil {
		return 0, err
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	var removed int64
	for _, p := range before.Products {
		if wanted[p.Name] {
			removed++
		}
	}
	return removed, nil
}

func (r *MongoSchoolRepository) DecrementStock(ctx context.Context, schoolID string, productID primitive.ObjectID, qty int64) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{
			"school_id": schoolID,
			"products":  bson.M{"$elemMatch": bson.M{"_id": productID, "item_count": bson.M{"$gte": qty}}},
		},
		bson.M{"$inc": bson.M{
			"products.$.item_count": -qty,
			"products.$.sell_count": qty,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		school, ferr := r.FindBySchoolID(ctx, schoolID)
		if ferr != nil {
			return ferr
		}
		if school.FindProduct(productID) == nil {
			return ErrProductNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}
