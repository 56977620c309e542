package mocks

import (
	"context"

	"github.com/shopsphere/marketplace-api/internal/models"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type ProductRepository struct {
	mock.Mock
}

func (m *ProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)

	return args.Error(0)
}

func (m *ProductRepository) GetProductByID(ctx context.Context, id bson.ObjectID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductRepository) GetSellerProduct(ctx context.Context, id, sellerID bson.ObjectID) (*models.Product, error) {
	args := m.Called(ctx, id, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductRepository) ListProducts(ctx context.Context, sellerID bson.ObjectID, filter models.ProductFilter) ([]models.Product, error) {
	args := m.Called(ctx, sellerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *ProductRepository) UpdateProduct(ctx context.Context, id bson.ObjectID, patch bson.M) (*models.Product, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductRepository) DeleteProduct(ctx context.Context, id, sellerID bson.ObjectID) error {
	args := m.Called(ctx, id, sellerID)

	return args.Error(0)
}

func (m *ProductRepository) InsertImages(ctx context.Context, images []models.ProductImage) error {
	args := m.Called(ctx, images)

	return args.Error(0)
}

func (m *ProductRepository) FindImages(ctx context.Context, productID bson.ObjectID, ids []bson.ObjectID) ([]models.ProductImage, error) {
	args := m.Called(ctx, productID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.ProductImage), args.Error(1)
}

func (m *ProductRepository) ListImagesByProduct(ctx context.Context, productID bson.ObjectID) ([]models.ProductImage, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.ProductImage), args.Error(1)
}

func (m *ProductRepository) DeleteImages(ctx context.Context, ids []bson.ObjectID) (int64, error) {
	args := m.Called(ctx, ids)

	return args.Get(0).(int64), args.Error(1)
}

func (m *ProductRepository) DeleteImagesByProduct(ctx context.Context, productID bson.ObjectID) (int64, error) {
	args := m.Called(ctx, productID)

	return args.Get(0).(int64), args.Error(1)
}
