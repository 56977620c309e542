package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/shopsphere/marketplace-api/internal/api/middleware"
	"github.com/shopsphere/marketplace-api/internal/errors"
	"github.com/shopsphere/marketplace-api/internal/models"
	service "github.com/shopsphere/marketplace-api/internal/services"
	"github.com/shopsphere/marketplace-api/internal/utils"
	"github.com/shopsphere/marketplace-api/internal/utils/response"
)

type OrderHandler struct {
	orderService service.OrderService
	validator    *validator.Validate
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService, validator: validator.New()}
}

func (h *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		cartID, err := utils.ParseID(r, "cartId")
		if err != nil {
			response.Error(w, err)

			return
		}

		// the body is optional; an empty one means "order the cart as is"
		var req models.CreateOrderRequest
		if r.ContentLength != 0 {
			if !utils.ParseAndValidate(r, w, &req, h.validator) {
				return
			}
		}

		order, err := h.orderService.CreateOrder(r.Context(), claims.UserID, claims.Email, cartID, &req)
		if err != nil {
			logger.Warn("Failed to create order", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Order created",
			slog.String("orderId", order.ID.Hex()),
			slog.Float64("totalAmount", order.TotalAmount))
		response.Success(w, http.StatusCreated, order)
	}
}

func (h *OrderHandler) GetOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		orders, err := h.orderService.GetOrders(r.Context(), claims.UserID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, orders)
	}
}

func (h *OrderHandler) GetOrderByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		orderID, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)

			return
		}

		order, err := h.orderService.GetOrderByID(r.Context(), orderID, claims.UserID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

// UpdateOrder is admin only; routing enforces the role.
func (h *OrderHandler) UpdateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		orderID, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)

			return
		}

		var req models.UpdateOrderRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		order, err := h.orderService.UpdateOrder(r.Context(), orderID, &req)
		if err != nil {
			logger.Warn("Failed to update order",
				slog.String("orderId", orderID.Hex()),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Order updated", slog.String("orderId", order.ID.Hex()))
		response.Success(w, http.StatusOK, order)
	}
}

// DeleteOrder is admin only; routing enforces the role.
func (h *OrderHandler) DeleteOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		orderID, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)

			return
		}

		if err := h.orderService.DeleteOrder(r.Context(), orderID); err != nil {
			logger.Warn("Failed to delete order",
				slog.String("orderId", orderID.Hex()),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, map[string]string{"message": "Order deleted"})
	}
}
