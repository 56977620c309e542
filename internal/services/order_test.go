package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	appErrors "github.com/shopsphere/marketplace-api/internal/errors"
	"github.com/shopsphere/marketplace-api/internal/models"
	"github.com/shopsphere/marketplace-api/internal/repositories/mocks"
	service "github.com/shopsphere/marketplace-api/internal/services"
	emailMocks "github.com/shopsphere/marketplace-api/pkg/sendGrid/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func newOrderService() (*mocks.OrderRepository, *mocks.CartRepository, *emailMocks.EmailService, service.OrderService) {
	orderRepo := &mocks.OrderRepository{}
	cartRepo := &mocks.CartRepository{}
	emailService := &emailMocks.EmailService{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return orderRepo, cartRepo, emailService, service.NewOrderService(orderRepo, cartRepo, emailService, logger)
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()
	userID := bson.NewObjectID()
	cartID := bson.NewObjectID()

	cart := &models.Cart{
		ID:         cartID,
		UserID:     userID,
		Items:      []bson.ObjectID{bson.NewObjectID()},
		TotalPrice: 99.95,
	}

	t.Run("Success - Total Is Frozen From The Cart", func(t *testing.T) {
		// Arrange
		orderRepo, cartRepo, emailService, orderService := newOrderService()
		cartRepo.On("GetCartByID", ctx, cartID).Return(cart, nil).Once()
		orderRepo.On("CreateOrder", ctx, mock.AnythingOfType("*models.Order")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.Order).ID = bson.NewObjectID()
			}).Return(nil).Once()
		emailService.On("Send", mock.Anything, mock.Anything).Return(nil).Maybe()

		// Act
		order, err := orderService.CreateOrder(ctx, userID, "buyer@example.com", cartID, &models.CreateOrderRequest{})

		// Assert
		assert.NoError(t, err)
		assert.NotNil(t, order)
		assert.Equal(t, 99.95, order.TotalAmount)
		assert.Equal(t, cartID, order.CartID)
		assert.Equal(t, models.OrderStatusPending, order.Status)
		assert.WithinDuration(t, time.Now(), order.CreatedAt, time.Second)
		// the cart survives order creation
		cartRepo.AssertNotCalled(t, "DeleteCart", mock.Anything, mock.Anything)
		orderRepo.AssertExpectations(t)
		cartRepo.AssertExpectations(t)
	})

	t.Run("Success - Explicit Status Wins Over Default", func(t *testing.T) {
		// Arrange
		orderRepo, cartRepo, emailService, orderService := newOrderService()
		cartRepo.On("GetCartByID", ctx, cartID).Return(cart, nil).Once()
		orderRepo.On("CreateOrder", ctx, mock.AnythingOfType("*models.Order")).Return(nil).Once()
		emailService.On("Send", mock.Anything, mock.Anything).Return(nil).Maybe()

		// Act
		order, err := orderService.CreateOrder(ctx, userID, "buyer@example.com", cartID, &models.CreateOrderRequest{
			Status: models.OrderStatusConfirmed,
		})

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, models.OrderStatusConfirmed, order.Status)
		orderRepo.AssertExpectations(t)
	})

	t.Run("Failure - No Cart To Order From", func(t *testing.T) {
		// Arrange
		orderRepo, cartRepo, _, orderService := newOrderService()
		cartRepo.On("GetCartByID", ctx, cartID).Return(nil, mongo.ErrNoDocuments).Once()

		// Act
		order, err := orderService.CreateOrder(ctx, userID, "buyer@example.com", cartID, &models.CreateOrderRequest{})

		// Assert
		assert.Nil(t, order)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		orderRepo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
		cartRepo.AssertExpectations(t)
	})

	t.Run("Failure - Foreign Cart Reads As Missing", func(t *testing.T) {
		// Arrange
		orderRepo, cartRepo, _, orderService := newOrderService()
		foreignCart := &models.Cart{
			ID:         cartID,
			UserID:     bson.NewObjectID(),
			TotalPrice: 10.00,
		}
		cartRepo.On("GetCartByID", ctx, cartID).Return(foreignCart, nil).Once()

		// Act
		order, err := orderService.CreateOrder(ctx, userID, "buyer@example.com", cartID, &models.CreateOrderRequest{})

		// Assert
		assert.Nil(t, order)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		orderRepo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
		cartRepo.AssertExpectations(t)
	})

	t.Run("Failure - Insert Error", func(t *testing.T) {
		// Arrange
		orderRepo, cartRepo, _, orderService := newOrderService()
		dbError := errors.New("write concern timeout")
		cartRepo.On("GetCartByID", ctx, cartID).Return(cart, nil).Once()
		orderRepo.On("CreateOrder", ctx, mock.AnythingOfType("*models.Order")).Return(dbError).Once()

		// Act
		order, err := orderService.CreateOrder(ctx, userID, "buyer@example.com", cartID, &models.CreateOrderRequest{})

		// Assert
		assert.Nil(t, order)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDatabase, appErr.Code)
		assert.ErrorIs(t, err, dbError)
		orderRepo.AssertExpectations(t)
	})
}

func TestGetOrders(t *testing.T) {
	ctx := context.Background()
	userID := bson.NewObjectID()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		orderRepo, _, _, orderService := newOrderService()
		orders := []models.Order{
			{ID: bson.NewObjectID(), UserID: userID, Status: models.OrderStatusPending, TotalAmount: 42.00},
			{ID: bson.NewObjectID(), UserID: userID, Status: models.OrderStatusDelivered, TotalAmount: 17.50},
		}
		orderRepo.On("ListOrdersByUser", ctx, userID).Return(orders, nil).Once()

		// Act
		got, err := orderService.GetOrders(ctx, userID)

		// Assert
		assert.NoError(t, err)
		assert.Len(t, got, 2)
		orderRepo.AssertExpectations(t)
	})

	t.Run("Success - No Orders", func(t *testing.T) {
		// Arrange
		orderRepo, _, _, orderService := newOrderService()
		orderRepo.On("ListOrdersByUser", ctx, userID).Return([]models.Order{}, nil).Once()

		// Act
		got, err := orderService.GetOrders(ctx, userID)

		// Assert
		assert.NoError(t, err)
		assert.Empty(t, got)
		orderRepo.AssertExpectations(t)
	})
}

func TestGetOrderByID(t *testing.T) {
	ctx := context.Background()
	userID := bson.NewObjectID()
	orderID := bson.NewObjectID()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		orderRepo, _, _, orderService := newOrderService()
		order := &models.Order{ID: orderID, UserID: userID, Status: models.OrderStatusPending}
		orderRepo.On("GetUserOrder", ctx, orderID, userID).Return(order, nil).Once()

		// Act
		got, err := orderService.GetOrderByID(ctx, orderID, userID)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, orderID, got.ID)
		orderRepo.AssertExpectations(t)
	})

	t.Run("Failure - Foreign Order Reads As Missing", func(t *testing.T) {
		// Arrange
		orderRepo, _, _, orderService := newOrderService()
		orderRepo.On("GetUserOrder", ctx, orderID, userID).Return(nil, mongo.ErrNoDocuments).Once()

		// Act
		got, err := orderService.GetOrderByID(ctx, orderID, userID)

		// Assert
		assert.Nil(t, got)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		orderRepo.AssertExpectations(t)
	})
}

func TestUpdateOrder(t *testing.T) {
	ctx := context.Background()
	orderID := bson.NewObjectID()

	t.Run("Success - Status Change", func(t *testing.T) {
		// Arrange
		orderRepo, _, _, orderService := newOrderService()
		status := models.OrderStatusShipped
		updated := &models.Order{ID: orderID, Status: status}

		orderRepo.On("UpdateOrder", ctx, orderID, mock.MatchedBy(func(patch bson.M) bool {
			return patch["status"] == status
		})).Return(updated, nil).Once()

		// Act
		got, err := orderService.UpdateOrder(ctx, orderID, &models.UpdateOrderRequest{Status: &status})

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, status, got.Status)
		orderRepo.AssertExpectations(t)
	})

	t.Run("Failure - Order Not Found", func(t *testing.T) {
		// Arrange
		orderRepo, _, _, orderService := newOrderService()
		status := models.OrderStatusCancelled
		orderRepo.On("UpdateOrder", ctx, orderID, mock.Anything).Return(nil, mongo.ErrNoDocuments).Once()

		// Act
		got, err := orderService.UpdateOrder(ctx, orderID, &models.UpdateOrderRequest{Status: &status})

		// Assert
		assert.Nil(t, got)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		orderRepo.AssertExpectations(t)
	})
}

func TestDeleteOrder(t *testing.T) {
	ctx := context.Background()
	orderID := bson.NewObjectID()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		orderRepo, _, _, orderService := newOrderService()
		orderRepo.On("DeleteOrder", ctx, orderID).Return(nil).Once()

		// Act
		err := orderService.DeleteOrder(ctx, orderID)

		// Assert
		assert.NoError(t, err)
		orderRepo.AssertExpectations(t)
	})

	t.Run("Failure - Order Not Found", func(t *testing.T) {
		// Arrange
		orderRepo, _, _, orderService := newOrderService()
		orderRepo.On("DeleteOrder", ctx, orderID).Return(mongo.ErrNoDocuments).Once()

		// Act
		err := orderService.DeleteOrder(ctx, orderID)

		// Assert
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		orderRepo.AssertExpectations(t)
	})
}
