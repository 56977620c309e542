package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// CartItem is a frozen selection: Price is quantity × product price at the
// time the item was added, never recomputed from the live product.
type CartItem struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    bson.ObjectID `bson:"userId" json:"user_id"`
	ProductID bson.ObjectID `bson:"productId" json:"product_id"`
	Quantity  int64         `bson:"quantity" json:"quantity"`
	Price     float64       `bson:"price" json:"price"`
	Product   *Product      `bson:"product,omitempty" json:"product,omitempty"`
}

// Cart as stored: items hold CartItem references, totalPrice is the running
// sum of the referenced item prices.
type Cart struct {
	ID         bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID     bson.ObjectID   `bson:"userId" json:"user_id"`
	Items      []bson.ObjectID `bson:"items" json:"items"`
	TotalPrice float64         `bson:"totalPrice" json:"total_price"`
	CreatedAt  time.Time       `bson:"createdAt" json:"created_at"`
}

// CartDetail is the read model for GetCart: items expanded with their
// products joined in. An absent cart serialises as an empty detail.
type CartDetail struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID     bson.ObjectID `bson:"userId" json:"user_id,omitempty"`
	Items      []CartItem    `bson:"items" json:"items"`
	TotalPrice float64       `bson:"totalPrice" json:"total_price"`
	CreatedAt  time.Time     `bson:"createdAt" json:"created_at,omitzero"`
}

func EmptyCartDetail() *CartDetail {
	return &CartDetail{Items: []CartItem{}}
}

type AddToCartRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,min=1"`
}

type UpdateCartRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,min=1"`
}
