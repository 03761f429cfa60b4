package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Review is unique per (product, user, order); the reviews collection
// carries a unique compound index on the triple.
type Review struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID bson.ObjectID `bson:"productId" json:"productId"`
	UserID    bson.ObjectID `bson:"userId" json:"userId"`
	OrderID   bson.ObjectID `bson:"orderId" json:"orderId"`
	Rating    int           `bson:"rating" json:"rating"`
	Comment   string        `bson:"comment,omitempty" json:"comment,omitempty"`
	Images    []string      `bson:"images,omitempty" json:"images,omitempty"`
	Approved  bool          `bson:"approved" json:"approved"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`
}
