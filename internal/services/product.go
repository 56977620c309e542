package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/shopsphere/marketplace-api/internal/cache"
	appErrors "github.com/shopsphere/marketplace-api/internal/errors"
	"github.com/shopsphere/marketplace-api/internal/models"
	repository "github.com/shopsphere/marketplace-api/internal/repositories"
	"github.com/shopsphere/marketplace-api/pkg/s3"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type ProductService interface {
	CreateProduct(ctx context.Context, sellerID bson.ObjectID, req *models.CreateProductRequest) (*models.Product, error)
	GetProduct(ctx context.Context, id, sellerID bson.ObjectID) (*models.Product, error)
	ListProducts(ctx context.Context, sellerID bson.ObjectID, filter models.ProductFilter) ([]models.Product, error)
	UpdateProduct(ctx context.Context, id, sellerID bson.ObjectID, req *models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id, sellerID bson.ObjectID) error
}

type productService struct {
	productRepo repository.ProductRepository
	blobStore   s3.BlobStore
	cache       cache.Cache
	logger      *slog.Logger
}

func NewProductService(productRepo repository.ProductRepository, blobStore s3.BlobStore, cache cache.Cache, logger *slog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		blobStore:   blobStore,
		cache:       cache,
		logger:      logger,
	}
}

func productCacheKey(id bson.ObjectID) string {
	return fmt.Sprintf("product:%s", id.Hex())
}

// Product names and descriptions are rendered in storefronts, so any
// markup a seller submits is stripped.
var htmlStripper = bluemonday.StrictPolicy()

func (s *productService) CreateProduct(ctx context.Context, sellerID bson.ObjectID, req *models.CreateProductRequest) (*models.Product, error) {

	now := time.Now()

	product := &models.Product{
		UserID:      sellerID,
		Name:        htmlStripper.Sanitize(req.Name),
		Description: htmlStripper.Sanitize(req.Description),
		Price:       req.Price,
		Stock:       req.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.productRepo.CreateProduct(ctx, product); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, appErrors.ConflictError("A product with this name already exists").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to create product").WithError(err)
	}

	if len(req.Images) > 0 {
		images, err := s.uploadImages(ctx, product.ID, req.Images)
		if err != nil {
			return nil, err
		}

		product.Images = images
	}

	return product, nil
}

func (s *productService) uploadImages(ctx context.Context, productID bson.ObjectID, uploads []models.ImageUpload) ([]models.ProductImage, error) {

	images := make([]models.ProductImage, 0, len(uploads))

	for _, upload := range uploads {
		url, err := s.blobStore.Upload(ctx, upload.FileName, upload.ContentType, upload.Data)
		if err != nil {
			return nil, appErrors.ThirdPartyError("Failed to upload product image").WithError(err)
		}

		images = append(images, models.ProductImage{
			ID:        bson.NewObjectID(),
			ProductID: productID,
			URL:       url,
			CreatedAt: time.Now(),
		})
	}

	if err := s.productRepo.InsertImages(ctx, images); err != nil {
		return nil, appErrors.DatabaseError("Failed to save product images").WithError(err)
	}

	return images, nil
}

func (s *productService) GetProduct(ctx context.Context, id, sellerID bson.ObjectID) (*models.Product, error) {

	key := productCacheKey(id)

	cached := &models.Product{}

	hit, err := s.cache.Get(ctx, key, cached)
	if err != nil {
		s.logger.Warn("product cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	if hit {
		if cached.UserID != sellerID {
			return nil, appErrors.NotFoundError("Product not found")
		}

		return cached, nil
	}

	product, err := s.productRepo.GetSellerProduct(ctx, id, sellerID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve product").WithError(err)
	}

	if err := s.cache.Set(ctx, key, product, 0); err != nil {
		s.logger.Warn("product cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, sellerID bson.ObjectID, filter models.ProductFilter) ([]models.Product, error) {

	products, err := s.productRepo.ListProducts(ctx, sellerID, filter)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to retrieve products").WithError(err)
	}

	return products, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id, sellerID bson.ObjectID, req *models.UpdateProductRequest) (*models.Product, error) {

	// Ownership check up front; a foreign product reads as missing.
	if _, err := s.productRepo.GetSellerProduct(ctx, id, sellerID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve product").WithError(err)
	}

	if len(req.DeleteImageIDs) > 0 {
		if err := s.deleteImages(ctx, id, req.DeleteImageIDs); err != nil {
			return nil, err
		}
	}

	if len(req.Images) > 0 {
		if _, err := s.uploadImages(ctx, id, req.Images); err != nil {
			return nil, err
		}
	}

	patch := bson.M{"updatedAt": time.Now()}

	if req.Name != nil {
		patch["name"] = htmlStripper.Sanitize(*req.Name)
	}

	if req.Description != nil {
		patch["description"] = htmlStripper.Sanitize(*req.Description)
	}

	if req.Price != nil {
		patch["price"] = *req.Price
	}

	if req.Stock != nil {
		patch["stock"] = *req.Stock
	}

	updated, err := s.productRepo.UpdateProduct(ctx, id, patch)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, appErrors.ConflictError("A product with this name already exists").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to update product").WithError(err)
	}

	s.invalidate(ctx, id)

	updated.Images, err = s.productRepo.ListImagesByProduct(ctx, id)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to retrieve product images").WithError(err)
	}

	return updated, nil
}

func (s *productService) deleteImages(ctx context.Context, productID bson.ObjectID, rawIDs []string) error {

	ids := make([]bson.ObjectID, 0, len(rawIDs))

	for _, raw := range rawIDs {
		id, err := bson.ObjectIDFromHex(raw)
		if err != nil {
			return appErrors.ValidationError("Invalid image id").WithError(err)
		}

		ids = append(ids, id)
	}

	// Only images belonging to this product are eligible; foreign ids are
	// silently ignored.
	images, err := s.productRepo.FindImages(ctx, productID, ids)
	if err != nil {
		return appErrors.DatabaseError("Failed to retrieve product images").WithError(err)
	}

	owned := make([]bson.ObjectID, 0, len(images))

	for _, img := range images {
		if err := s.blobStore.Delete(ctx, img.URL); err != nil {
			s.logger.Warn("failed to delete image blob", slog.String("url", img.URL), slog.String("error", err.Error()))
		}

		owned = append(owned, img.ID)
	}

	if len(owned) == 0 {
		return nil
	}

	if _, err := s.productRepo.DeleteImages(ctx, owned); err != nil {
		return appErrors.DatabaseError("Failed to delete product images").WithError(err)
	}

	return nil
}

func (s *productService) DeleteProduct(ctx context.Context, id, sellerID bson.ObjectID) error {

	images, err := s.productRepo.ListImagesByProduct(ctx, id)
	if err != nil {
		return appErrors.DatabaseError("Failed to retrieve product images").WithError(err)
	}

	if err := s.productRepo.DeleteProduct(ctx, id, sellerID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return appErrors.NotFoundError("Product not found").WithError(err)
		}

		return appErrors.DatabaseError("Failed to delete product").WithError(err)
	}

	for _, img := range images {
		if err := s.blobStore.Delete(ctx, img.URL); err != nil {
			s.logger.Warn("failed to delete image blob", slog.String("url", img.URL), slog.String("error", err.Error()))
		}
	}

	if _, err := s.productRepo.DeleteImagesByProduct(ctx, id); err != nil {
		return appErrors.DatabaseError("Failed to delete product images").WithError(err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *productService) invalidate(ctx context.Context, id bson.ObjectID) {
	key := productCacheKey(id)

	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Warn("product cache invalidation failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}
