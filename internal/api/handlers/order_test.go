package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopsphere/marketplace-api/internal/api/handlers"
	appErrors "github.com/shopsphere/marketplace-api/internal/errors"
	"github.com/shopsphere/marketplace-api/internal/models"
	"github.com/shopsphere/marketplace-api/internal/services/mocks"
	"github.com/shopsphere/marketplace-api/internal/testutils"
	"github.com/shopsphere/marketplace-api/internal/utils/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func setupOrderTest() (*mocks.OrderService, *handlers.OrderHandler) {
	mockOrderService := new(mocks.OrderService)
	orderHandler := handlers.NewOrderHandler(mockOrderService)

	return mockOrderService, orderHandler
}

func TestCreateOrderHandler(t *testing.T) {
	userID := bson.NewObjectID()
	cartID := bson.NewObjectID()

	t.Run("Success - Empty Body Orders The Cart As Is", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/orders/"+cartID.Hex(), nil, userID, models.RoleUser,
			map[string]string{"cartId": cartID.Hex()})
		recorder := httptest.NewRecorder()

		order := &models.Order{
			ID:          bson.NewObjectID(),
			UserID:      userID,
			CartID:      cartID,
			Status:      models.OrderStatusPending,
			TotalAmount: 99.95,
		}
		mockOrderService.On("CreateOrder", mock.Anything, userID, "test@example.com", cartID, mock.AnythingOfType("*models.CreateOrderRequest")).
			Return(order, nil).Once()

		// Act
		orderHandler.CreateOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusCreated, recorder.Code)

		var resp response.APIResponse
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		mockOrderService.AssertExpectations(t)
	})

	t.Run("Failure - No Cart Maps To 404", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/orders/"+cartID.Hex(), nil, userID, models.RoleUser,
			map[string]string{"cartId": cartID.Hex()})
		recorder := httptest.NewRecorder()

		mockOrderService.On("CreateOrder", mock.Anything, userID, "test@example.com", cartID, mock.AnythingOfType("*models.CreateOrderRequest")).
			Return(nil, appErrors.NotFoundError("Cart not found")).Once()

		// Act
		orderHandler.CreateOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, recorder.Code)
		mockOrderService.AssertExpectations(t)
	})

	t.Run("Failure - Invalid Cart ID", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/orders/xyz", nil, userID, models.RoleUser,
			map[string]string{"cartId": "xyz"})
		recorder := httptest.NewRecorder()

		// Act
		orderHandler.CreateOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockOrderService.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Invalid Status Rejected", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()
		body := []byte(`{"status":"Teleported"}`)
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/orders/"+cartID.Hex(), bytes.NewBuffer(body), userID, models.RoleUser,
			map[string]string{"cartId": cartID.Hex()})
		recorder := httptest.NewRecorder()

		// Act
		orderHandler.CreateOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockOrderService.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGetOrdersHandler(t *testing.T) {
	userID := bson.NewObjectID()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()
		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/orders", nil, userID, models.RoleUser, nil)
		recorder := httptest.NewRecorder()

		orders := []models.Order{
			{ID: bson.NewObjectID(), UserID: userID, Status: models.OrderStatusPending},
		}
		mockOrderService.On("GetOrders", mock.Anything, userID).Return(orders, nil).Once()

		// Act
		orderHandler.GetOrders()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockOrderService.AssertExpectations(t)
	})
}

func TestGetOrderByIDHandler(t *testing.T) {
	userID := bson.NewObjectID()
	orderID := bson.NewObjectID()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()
		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/orders/"+orderID.Hex(), nil, userID, models.RoleUser,
			map[string]string{"id": orderID.Hex()})
		recorder := httptest.NewRecorder()

		order := &models.Order{ID: orderID, UserID: userID}
		mockOrderService.On("GetOrderByID", mock.Anything, orderID, userID).Return(order, nil).Once()

		// Act
		orderHandler.GetOrderByID()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockOrderService.AssertExpectations(t)
	})

	t.Run("Failure - Foreign Order Maps To 404", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()
		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/orders/"+orderID.Hex(), nil, userID, models.RoleUser,
			map[string]string{"id": orderID.Hex()})
		recorder := httptest.NewRecorder()

		mockOrderService.On("GetOrderByID", mock.Anything, orderID, userID).
			Return(nil, appErrors.NotFoundError("Order not found")).Once()

		// Act
		orderHandler.GetOrderByID()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, recorder.Code)
		mockOrderService.AssertExpectations(t)
	})

	t.Run("Failure - Invalid ID", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()
		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/orders/xyz", nil, userID, models.RoleUser,
			map[string]string{"id": "xyz"})
		recorder := httptest.NewRecorder()

		// Act
		orderHandler.GetOrderByID()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockOrderService.AssertNotCalled(t, "GetOrderByID", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpdateOrderHandler(t *testing.T) {
	adminID := bson.NewObjectID()
	orderID := bson.NewObjectID()

	t.Run("Success - Status Change", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()
		body, _ := json.Marshal(map[string]string{"status": "Shipped"})
		req := testutils.CreateTestRequestWithContext(http.MethodPut, "/api/v1/orders/"+orderID.Hex(), bytes.NewBuffer(body), adminID, models.RoleAdmin,
			map[string]string{"id": orderID.Hex()})
		recorder := httptest.NewRecorder()

		order := &models.Order{ID: orderID, Status: models.OrderStatusShipped}
		mockOrderService.On("UpdateOrder", mock.Anything, orderID, mock.AnythingOfType("*models.UpdateOrderRequest")).
			Return(order, nil).Once()

		// Act
		orderHandler.UpdateOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockOrderService.AssertExpectations(t)
	})
}

func TestDeleteOrderHandler(t *testing.T) {
	adminID := bson.NewObjectID()
	orderID := bson.NewObjectID()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()
		req := testutils.CreateTestRequestWithContext(http.MethodDelete, "/api/v1/orders/"+orderID.Hex(), nil, adminID, models.RoleAdmin,
			map[string]string{"id": orderID.Hex()})
		recorder := httptest.NewRecorder()

		mockOrderService.On("DeleteOrder", mock.Anything, orderID).Return(nil).Once()

		// Act
		orderHandler.DeleteOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockOrderService.AssertExpectations(t)
	})

	t.Run("Failure - Order Not Found", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()
		req := testutils.CreateTestRequestWithContext(http.MethodDelete, "/api/v1/orders/"+orderID.Hex(), nil, adminID, models.RoleAdmin,
			map[string]string{"id": orderID.Hex()})
		recorder := httptest.NewRecorder()

		mockOrderService.On("DeleteOrder", mock.Anything, orderID).
			Return(appErrors.NotFoundError("Order not found")).Once()

		// Act
		orderHandler.DeleteOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, recorder.Code)
		mockOrderService.AssertExpectations(t)
	})
}
