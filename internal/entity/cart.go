package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartLine is a (product, quantity) pair inside a cart. A cart holds at
// most one line per product id.
type CartLine struct {
	ProductID primitive.ObjectID `json:"product" bson:"product"`
	Quantity  int                `json:"quantity" bson:"quantity"`
}

// Cart is the stored cart document. Version is the optimistic-concurrency
// token bumped on every persisted mutation.
type Cart struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Products  []CartLine         `json:"products" bson:"products"`
	Version   int64              `json:"-" bson:"version"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updated_at"`
}

// CartLineInput is one element of the replace-all payload.
type CartLineInput struct {
	Product  string `json:"product"`
	Quantity *int   `json:"quantity"`
}

// CartView is a cart with every line expanded to the full product document.
type CartView struct {
	ID        primitive.ObjectID `json:"id"`
	Products  []CartLineView     `json:"products"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

type CartLineView struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}
