package mocks

import (
	"context"

	"github.com/shopsphere/marketplace-api/internal/models"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type CartService struct {
	mock.Mock
}

func (m *CartService) GetCart(ctx context.Context, userID bson.ObjectID) (*models.CartDetail, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.CartDetail), args.Error(1)
}

func (m *CartService) AddToCart(ctx context.Context, userID bson.ObjectID, req *models.AddToCartRequest) (*models.Cart, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartService) UpdateCart(ctx context.Context, userID bson.ObjectID, req *models.UpdateCartRequest) (*models.Cart, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartService) RemoveFromCart(ctx context.Context, userID, productID bson.ObjectID) error {
	args := m.Called(ctx, userID, productID)

	return args.Error(0)
}

func (m *CartService) ClearCart(ctx context.Context, userID bson.ObjectID) error {
	args := m.Called(ctx, userID)

	return args.Error(0)
}
