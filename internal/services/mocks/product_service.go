package mocks

import (
	"context"

	"github.com/shopsphere/marketplace-api/internal/models"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type ProductService struct {
	mock.Mock
}

func (m *ProductService) CreateProduct(ctx context.Context, sellerID bson.ObjectID, req *models.CreateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, sellerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductService) GetProduct(ctx context.Context, id, sellerID bson.ObjectID) (*models.Product, error) {
	args := m.Called(ctx, id, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductService) ListProducts(ctx context.Context, sellerID bson.ObjectID, filter models.ProductFilter) ([]models.Product, error) {
	args := m.Called(ctx, sellerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *ProductService) UpdateProduct(ctx context.Context, id, sellerID bson.ObjectID, req *models.UpdateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, id, sellerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductService) DeleteProduct(ctx context.Context, id, sellerID bson.ObjectID) error {
	args := m.Called(ctx, id, sellerID)

	return args.Error(0)
}
