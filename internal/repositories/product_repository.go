package repository

import (
	"context"
	"fmt"

	"github.com/shopsphere/marketplace-api/internal/models"
	"github.com/shopsphere/marketplace-api/internal/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	// GetProductByID fetches a product regardless of owner; the cart path
	// needs foreign products.
	GetProductByID(ctx context.Context, id bson.ObjectID) (*models.Product, error)
	GetSellerProduct(ctx context.Context, id, sellerID bson.ObjectID) (*models.Product, error)
	ListProducts(ctx context.Context, sellerID bson.ObjectID, filter models.ProductFilter) ([]models.Product, error)
	UpdateProduct(ctx context.Context, id bson.ObjectID, patch bson.M) (*models.Product, error)
	DeleteProduct(ctx context.Context, id, sellerID bson.ObjectID) error

	InsertImages(ctx context.Context, images []models.ProductImage) error
	FindImages(ctx context.Context, productID bson.ObjectID, ids []bson.ObjectID) ([]models.ProductImage, error)
	ListImagesByProduct(ctx context.Context, productID bson.ObjectID) ([]models.ProductImage, error)
	DeleteImages(ctx context.Context, ids []bson.ObjectID) (int64, error)
	DeleteImagesByProduct(ctx context.Context, productID bson.ObjectID) (int64, error)
}

type productRepository struct {
	products *mongo.Collection
	images   *mongo.Collection
}

func NewProductRepo(db *mongo.Database) ProductRepository {
	return &productRepository{
		products: db.Collection(productsCollection),
		images:   db.Collection(imagesCollection),
	}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	res, err := r.products.InsertOne(dbCtx, product)
	if err != nil {
		return err
	}

	product.ID = res.InsertedID.(bson.ObjectID)

	return nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id bson.ObjectID) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	product := &models.Product{}

	err := r.products.FindOne(dbCtx, bson.M{"_id": id}).Decode(product)
	if err != nil {
		return nil, err
	}

	return product, nil
}

// imagesLookup joins product_images into each product document.
var imagesLookup = bson.D{{Key: "$lookup", Value: bson.M{
	"from":         imagesCollection,
	"localField":   "_id",
	"foreignField": "productId",
	"as":           "images",
}}}

func (r *productRepository) GetSellerProduct(ctx context.Context, id, sellerID bson.ObjectID) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id, "userId": sellerID}}},
		imagesLookup,
	}

	cursor, err := r.products.Aggregate(dbCtx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("querying product: %w", err)
	}

	defer cursor.Close(dbCtx)

	var products []models.Product
	if err := cursor.All(dbCtx, &products); err != nil {
		return nil, fmt.Errorf("decoding product: %w", err)
	}

	if len(products) == 0 {
		return nil, mongo.ErrNoDocuments
	}

	return &products[0], nil
}

func (r *productRepository) ListProducts(ctx context.Context, sellerID bson.ObjectID, filter models.ProductFilter) ([]models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	match := bson.M{"userId": sellerID}

	if filter.Search != "" {
		match["name"] = bson.M{"$regex": filter.Search, "$options": "i"}
	}

	price := bson.M{}
	if filter.PriceMin != nil {
		price["$gte"] = *filter.PriceMin
	}
	if filter.PriceMax != nil {
		price["$lte"] = *filter.PriceMax
	}
	if len(price) > 0 {
		match["price"] = price
	}

	stock := bson.M{}
	if filter.StockMin != nil {
		stock["$gte"] = *filter.StockMin
	}
	if filter.StockMax != nil {
		stock["$lte"] = *filter.StockMax
	}
	if len(stock) > 0 {
		match["stock"] = stock
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		imagesLookup,
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
	}

	cursor, err := r.products.Aggregate(dbCtx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}

	defer cursor.Close(dbCtx)

	products := []models.Product{}
	if err := cursor.All(dbCtx, &products); err != nil {
		return nil, fmt.Errorf("decoding products: %w", err)
	}

	return products, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, id bson.ObjectID, patch bson.M) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	product := &models.Product{}

	err := r.products.FindOneAndUpdate(
		dbCtx,
		bson.M{"_id": id},
		bson.M{"$set": patch},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(product)
	if err != nil {
		return nil, err
	}

	return product, nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, id, sellerID bson.ObjectID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	res, err := r.products.DeleteOne(dbCtx, bson.M{"_id": id, "userId": sellerID})
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

func (r *productRepository) InsertImages(ctx context.Context, images []models.ProductImage) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	docs := make([]any, 0, len(images))
	for _, img := range images {
		docs = append(docs, img)
	}

	if _, err := r.images.InsertMany(dbCtx, docs); err != nil {
		return fmt.Errorf("inserting product images: %w", err)
	}

	return nil
}

func (r *productRepository) FindImages(ctx context.Context, productID bson.ObjectID, ids []bson.ObjectID) ([]models.ProductImage, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	cursor, err := r.images.Find(dbCtx, bson.M{"_id": bson.M{"$in": ids}, "productId": productID})
	if err != nil {
		return nil, fmt.Errorf("querying product images: %w", err)
	}

	defer cursor.Close(dbCtx)

	images := []models.ProductImage{}
	if err := cursor.All(dbCtx, &images); err != nil {
		return nil, fmt.Errorf("decoding product images: %w", err)
	}

	return images, nil
}

func (r *productRepository) ListImagesByProduct(ctx context.Context, productID bson.ObjectID) ([]models.ProductImage, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	cursor, err := r.images.Find(dbCtx, bson.M{"productId": productID})
	if err != nil {
		return nil, fmt.Errorf("querying product images: %w", err)
	}

	defer cursor.Close(dbCtx)

	images := []models.ProductImage{}
	if err := cursor.All(dbCtx, &images); err != nil {
		return nil, fmt.Errorf("decoding product images: %w", err)
	}

	return images, nil
}

func (r *productRepository) DeleteImages(ctx context.Context, ids []bson.ObjectID) (int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	res, err := r.images.DeleteMany(dbCtx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("deleting product images: %w", err)
	}

	return res.DeletedCount, nil
}

func (r *productRepository) DeleteImagesByProduct(ctx context.Context, productID bson.ObjectID) (int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	res, err := r.images.DeleteMany(dbCtx, bson.M{"productId": productID})
	if err != nil {
		return 0, fmt.Errorf("deleting product images: %w", err)
	}

	return res.DeletedCount, nil
}
