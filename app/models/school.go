package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// School is the tenant unit: it owns a product catalog and the users
// assigned to it. Products are embedded; they have no identity outside
// their school.
type School struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SchoolID string             `bson:"school_id" json:"schoolId"`
	Name     string             `bson:"name" json:"name"`
	Address  string             `bson:"address,omitempty" json:"address,omitempty"`
	City     string             `bson:"city,omitempty" json:"city,omitempty"`
	State    string             `bson:"state,omitempty" json:"state,omitempty"`
	ImgURL   string             `bson:"img_url,omitempty" json:"imgUrl,omitempty"`
	Products []Product          `bson:"products" json:"products"`
}

// Product is a catalog entry embedded in a School document. Prices are
// integer toman; FinalPrice is the amount actually charged at checkout.
// ItemCount is the remaining stock and never goes below zero.
type Product struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	ImgURL     string             `bson:"img_url,omitempty" json:"imgUrl,omitempty"`
	Price      int64              `bson:"price" json:"price"`
	Off        int64              `bson:"off" json:"off"`
	Group      string             `bson:"group,omitempty" json:"group,omitempty"`
	FinalPrice int64              `bson:"final_price" json:"finalPrice"`
	SellCount  int64              `bson:"sell_count" json:"sellCount"`
	ItemCount  int64              `bson:"item_count" json:"itemCount"`
	DateTime   time.Time          `bson:"date_time" json:"dateTime"`
	FreeTime   bson.M             `bson:"free_time,omitempty" json:"freeTime,omitempty"`
	OldPrice   int64              `bson:"old_price" json:"oldPrice"`
	IsDiscount bool               `bson:"is_discount" json:"isDiscount"`
}

// FindProduct returns the embedded product with the given ID, or nil.
func (s *School) FindProduct(id primitive.ObjectID) *Product {
	for i := range s.Products {
		if s.Products[i].ID == id {
			return &s.Products[i]
		}
	}
	return nil
}

// FindProductByName returns the embedded product with the given name, or nil.
// Product names are unique within a school.
func (s *School) FindProductByName(name string) *Product {
	for i := range s.Products {
		if s.Products[i].Name == name {
			return &s.Products[i]
		}
	}
	return nil
}
