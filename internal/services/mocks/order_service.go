package mocks

import (
	"context"

	"github.com/shopsphere/marketplace-api/internal/models"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type OrderService struct {
	mock.Mock
}

func (m *OrderService) CreateOrder(ctx context.Context, userID bson.ObjectID, email string, cartID bson.ObjectID, req *models.CreateOrderRequest) (*models.Order, error) {
	args := m.Called(ctx, userID, email, cartID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderService) GetOrders(ctx context.Context, userID bson.ObjectID) ([]models.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *OrderService) GetOrderByID(ctx context.Context, id, userID bson.ObjectID) (*models.Order, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderService) UpdateOrder(ctx context.Context, id bson.ObjectID, req *models.UpdateOrderRequest) (*models.Order, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderService) DeleteOrder(ctx context.Context, id bson.ObjectID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}
