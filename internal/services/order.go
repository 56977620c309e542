package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	appErrors "github.com/shopsphere/marketplace-api/internal/errors"
	"github.com/shopsphere/marketplace-api/internal/models"
	repository "github.com/shopsphere/marketplace-api/internal/repositories"
	"github.com/shopsphere/marketplace-api/pkg/sendGrid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type OrderService interface {
	CreateOrder(ctx context.Context, userID bson.ObjectID, email string, cartID bson.ObjectID, req *models.CreateOrderRequest) (*models.Order, error)
	GetOrders(ctx context.Context, userID bson.ObjectID) ([]models.Order, error)
	GetOrderByID(ctx context.Context, id, userID bson.ObjectID) (*models.Order, error)
	UpdateOrder(ctx context.Context, id bson.ObjectID, req *models.UpdateOrderRequest) (*models.Order, error)
	DeleteOrder(ctx context.Context, id bson.ObjectID) error
}

type orderService struct {
	orderRepo    repository.OrderRepository
	cartRepo     repository.CartRepository
	emailService sendGrid.EmailService
	logger       *slog.Logger
}

func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, emailService sendGrid.EmailService, logger *slog.Logger) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		cartRepo:     cartRepo,
		emailService: emailService,
		logger:       logger,
	}
}

// CreateOrder snapshots the cart's totalPrice into the order. The amount is
// frozen at creation, later cart changes never touch it. The cart itself is
// left intact.
func (s *orderService) CreateOrder(ctx context.Context, userID bson.ObjectID, email string, cartID bson.ObjectID, req *models.CreateOrderRequest) (*models.Order, error) {

	cart, err := s.cartRepo.GetCartByID(ctx, cartID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appErrors.NotFoundError("Cart not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve cart").WithError(err)
	}

	// Another user's cart is indistinguishable from a missing one.
	if cart.UserID != userID {
		return nil, appErrors.NotFoundError("Cart not found")
	}

	status := req.Status
	if status == "" {
		status = models.OrderStatusPending
	}

	now := time.Now()

	order := &models.Order{
		UserID:      userID,
		CartID:      cart.ID,
		Status:      status,
		TotalAmount: cart.TotalPrice,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		return nil, appErrors.DatabaseError("Failed to create order").WithError(err)
	}

	// Confirmation email is best effort; the order stands either way.
	go s.sendConfirmation(email, order)

	return order, nil
}

func (s *orderService) sendConfirmation(email string, order *models.Order) {

	if s.emailService == nil || email == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.emailService.Send(ctx, &sendGrid.EmailRequest{
		To:      email,
		Subject: "Your order has been placed",
		Content: fmt.Sprintf("Order %s has been placed. Total amount: %.2f.", order.ID.Hex(), order.TotalAmount),
	})
	if err != nil {
		s.logger.Warn("failed to send order confirmation email",
			slog.String("orderId", order.ID.Hex()),
			slog.String("error", err.Error()))
	}
}

func (s *orderService) GetOrders(ctx context.Context, userID bson.ObjectID) ([]models.Order, error) {

	orders, err := s.orderRepo.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to retrieve orders").WithError(err)
	}

	return orders, nil
}

// GetOrderByID is owner scoped: another user's order is indistinguishable
// from a missing one.
func (s *orderService) GetOrderByID(ctx context.Context, id, userID bson.ObjectID) (*models.Order, error) {

	order, err := s.orderRepo.GetUserOrder(ctx, id, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve order").WithError(err)
	}

	return order, nil
}

func (s *orderService) UpdateOrder(ctx context.Context, id bson.ObjectID, req *models.UpdateOrderRequest) (*models.Order, error) {

	patch := bson.M{"updatedAt": time.Now()}

	if req.Status != nil {
		patch["status"] = *req.Status
	}

	if req.TotalAmount != nil {
		patch["totalAmount"] = *req.TotalAmount
	}

	if req.IsDeleted != nil {
		patch["isDeleted"] = *req.IsDeleted
	}

	order, err := s.orderRepo.UpdateOrder(ctx, id, patch)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to update order").WithError(err)
	}

	return order, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, id bson.ObjectID) error {

	err := s.orderRepo.DeleteOrder(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return appErrors.NotFoundError("Order not found").WithError(err)
		}

		return appErrors.DatabaseError("Failed to delete order").WithError(err)
	}

	return nil
}
