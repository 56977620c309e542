package mocks

import (
	"context"

	"github.com/shopsphere/marketplace-api/internal/models"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type CartRepository struct {
	mock.Mock
}

func (m *CartRepository) GetCartByUserID(ctx context.Context, userID bson.ObjectID) (*models.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartRepository) GetCartByID(ctx context.Context, id bson.ObjectID) (*models.Cart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartRepository) GetCartDetail(ctx context.Context, userID bson.ObjectID) (*models.CartDetail, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.CartDetail), args.Error(1)
}

func (m *CartRepository) CreateItem(ctx context.Context, item *models.CartItem) error {
	args := m.Called(ctx, item)

	return args.Error(0)
}

func (m *CartRepository) GetItem(ctx context.Context, userID, productID bson.ObjectID) (*models.CartItem, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.CartItem), args.Error(1)
}

func (m *CartRepository) UpdateItem(ctx context.Context, id bson.ObjectID, quantity int64, price float64) error {
	args := m.Called(ctx, id, quantity, price)

	return args.Error(0)
}

func (m *CartRepository) DeleteItem(ctx context.Context, id bson.ObjectID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *CartRepository) DeleteItems(ctx context.Context, ids []bson.ObjectID) (int64, error) {
	args := m.Called(ctx, ids)

	return args.Get(0).(int64), args.Error(1)
}

func (m *CartRepository) AttachItem(ctx context.Context, userID, itemID bson.ObjectID, price float64) error {
	args := m.Called(ctx, userID, itemID, price)

	return args.Error(0)
}

func (m *CartRepository) AdjustTotal(ctx context.Context, cartID bson.ObjectID, delta float64) error {
	args := m.Called(ctx, cartID, delta)

	return args.Error(0)
}

func (m *CartRepository) DetachItem(ctx context.Context, cartID, itemID bson.ObjectID, price float64) error {
	args := m.Called(ctx, cartID, itemID, price)

	return args.Error(0)
}

func (m *CartRepository) DeleteCartIfEmpty(ctx context.Context, cartID bson.ObjectID) (bool, error) {
	args := m.Called(ctx, cartID)

	return args.Bool(0), args.Error(1)
}

func (m *CartRepository) DeleteCart(ctx context.Context, cartID bson.ObjectID) error {
	args := m.Called(ctx, cartID)

	return args.Error(0)
}
