package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusConfirmed OrderStatus = "Confirmed"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// Order is derived from a cart snapshot: TotalAmount copies the cart's
// totalPrice at creation and never changes afterwards. CartID is an audit
// back-reference only; the cart may be deleted later.
type Order struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      bson.ObjectID `bson:"userId" json:"user_id"`
	CartID      bson.ObjectID `bson:"cartId" json:"cart_id"`
	Status      OrderStatus   `bson:"status" json:"status"`
	TotalAmount float64       `bson:"totalAmount" json:"total_amount"`
	IsDeleted   bool          `bson:"isDeleted" json:"is_deleted"`
	DeletedAt   *time.Time    `bson:"deletedAt,omitempty" json:"deleted_at,omitempty"`
	CreatedAt   time.Time     `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updated_at"`
}

type CreateOrderRequest struct {
	Status OrderStatus `json:"status,omitempty" validate:"omitempty,oneof=Pending Confirmed Shipped Delivered Cancelled"`
}

// admin-side order update; no transition table is enforced, any status may
// follow any other
type UpdateOrderRequest struct {
	Status      *OrderStatus `json:"status,omitempty" validate:"omitempty,oneof=Pending Confirmed Shipped Delivered Cancelled"`
	TotalAmount *float64     `json:"total_amount,omitempty" validate:"omitempty,gte=0"`
	IsDeleted   *bool        `json:"is_deleted,omitempty"`
}
