package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Product struct {
	ID          bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID      bson.ObjectID  `bson:"userId" json:"user_id"`
	Name        string         `bson:"name" json:"name"`
	Description string         `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64        `bson:"price" json:"price"`
	Stock       int64          `bson:"stock" json:"stock"`
	IsDeleted   bool           `bson:"isDeleted" json:"is_deleted"`
	DeletedAt   *time.Time     `bson:"deletedAt,omitempty" json:"deleted_at,omitempty"`
	CreatedAt   time.Time      `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time      `bson:"updatedAt" json:"updated_at"`
	Images      []ProductImage `bson:"images,omitempty" json:"images,omitempty"`
}

type ProductImage struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID bson.ObjectID `bson:"productId" json:"product_id"`
	URL       string        `bson:"url" json:"url"`
	CreatedAt time.Time     `bson:"createdAt" json:"created_at"`
}

// ImageUpload carries raw image bytes (base64 over the wire) destined for
// the blob store.
type ImageUpload struct {
	FileName    string `json:"file_name" validate:"required"`
	ContentType string `json:"content_type" validate:"required"`
	Data        []byte `json:"data" validate:"required"`
}

type CreateProductRequest struct {
	Name        string        `json:"name" validate:"required,min=3,max=200"`
	Description string        `json:"description,omitempty"`
	Price       float64       `json:"price" validate:"gte=0"`
	Stock       int64         `json:"stock" validate:"gte=0"`
	Images      []ImageUpload `json:"images,omitempty" validate:"omitempty,dive"`
}

type UpdateProductRequest struct {
	Name           *string       `json:"name,omitempty" validate:"omitempty,min=3,max=200"`
	Description    *string       `json:"description,omitempty"`
	Price          *float64      `json:"price,omitempty" validate:"omitempty,gte=0"`
	Stock          *int64        `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Images         []ImageUpload `json:"images,omitempty" validate:"omitempty,dive"`
	DeleteImageIDs []string      `json:"delete_image_ids,omitempty"`
}

// ProductFilter narrows a seller's listing; zero values mean "no bound".
type ProductFilter struct {
	Search   string
	PriceMin *float64
	PriceMax *float64
	StockMin *int64
	StockMax *int64
}
