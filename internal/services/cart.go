package service

import (
	"context"
	"errors"

	appErrors "github.com/shopsphere/marketplace-api/internal/errors"
	"github.com/shopsphere/marketplace-api/internal/models"
	repository "github.com/shopsphere/marketplace-api/internal/repositories"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type CartService interface {
	GetCart(ctx context.Context, userID bson.ObjectID) (*models.CartDetail, error)
	AddToCart(ctx context.Context, userID bson.ObjectID, req *models.AddToCartRequest) (*models.Cart, error)
	UpdateCart(ctx context.Context, userID bson.ObjectID, req *models.UpdateCartRequest) (*models.Cart, error)
	RemoveFromCart(ctx context.Context, userID, productID bson.ObjectID) error
	ClearCart(ctx context.Context, userID bson.ObjectID) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{cartRepo: cartRepo, productRepo: productRepo}
}

// GetCart returns the user's cart with items and their products expanded.
// A user without a cart gets an empty cart, not an error.
func (s *cartService) GetCart(ctx context.Context, userID bson.ObjectID) (*models.CartDetail, error) {

	detail, err := s.cartRepo.GetCartDetail(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.EmptyCartDetail(), nil
		}

		return nil, appErrors.DatabaseError("Failed to retrieve cart").WithError(err)
	}

	return detail, nil
}

// AddToCart snapshots the product price at add time. The snapshot is
// frozen: later product price changes never touch an existing item.
func (s *cartService) AddToCart(ctx context.Context, userID bson.ObjectID, req *models.AddToCartRequest) (*models.Cart, error) {

	productID, err := bson.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return nil, appErrors.ValidationError("Invalid product id").WithError(err)
	}

	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve product").WithError(err)
	}

	// sellers cannot buy their own listings
	if product.UserID == userID {
		return nil, appErrors.ForbiddenError("You cannot add your own product to the cart")
	}

	itemPrice := product.Price * float64(req.Quantity)

	item := &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  req.Quantity,
		Price:     itemPrice,
	}

	// The item is written before the cart references it. The unique
	// (userId, productId) index turns a duplicate add into a conflict.
	if err := s.cartRepo.CreateItem(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, appErrors.ConflictError("Product is already in the cart").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to add product to cart").WithError(err)
	}

	// Single atomic upsert: creates the cart on first add, appends the
	// reference and bumps totalPrice in one write.
	if err := s.cartRepo.AttachItem(ctx, userID, item.ID, itemPrice); err != nil {
		// best effort, otherwise the item is orphaned
		_ = s.cartRepo.DeleteItem(ctx, item.ID)

		return nil, appErrors.DatabaseError("Failed to add product to cart").WithError(err)
	}

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to retrieve cart").WithError(err)
	}

	return cart, nil
}

// UpdateCart reprices the item from the live product price, unlike
// AddToCart which freezes it. totalPrice moves by the signed delta, never
// by rescanning the items.
func (s *cartService) UpdateCart(ctx context.Context, userID bson.ObjectID, req *models.UpdateCartRequest) (*models.Cart, error) {

	productID, err := bson.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return nil, appErrors.ValidationError("Invalid product id").WithError(err)
	}

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appErrors.NotFoundError("Cart not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve cart").WithError(err)
	}

	item, err := s.cartRepo.GetItem(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appErrors.NotFoundError("Cart item not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve cart item").WithError(err)
	}

	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve product").WithError(err)
	}

	newPrice := product.Price * float64(req.Quantity)
	delta := newPrice - item.Price

	if err := s.cartRepo.UpdateItem(ctx, item.ID, req.Quantity, newPrice); err != nil {
		return nil, appErrors.DatabaseError("Failed to update cart item").WithError(err)
	}

	if err := s.cartRepo.AdjustTotal(ctx, cart.ID, delta); err != nil {
		return nil, appErrors.DatabaseError("Failed to update cart").WithError(err)
	}

	updated, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to retrieve cart").WithError(err)
	}

	return updated, nil
}

// RemoveFromCart deletes the item and, when it was the last one, the cart
// itself: a zero-item cart does not persist.
func (s *cartService) RemoveFromCart(ctx context.Context, userID, productID bson.ObjectID) error {

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return appErrors.NotFoundError("Cart not found").WithError(err)
		}

		return appErrors.DatabaseError("Failed to retrieve cart").WithError(err)
	}

	item, err := s.cartRepo.GetItem(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return appErrors.NotFoundError("Cart item not found").WithError(err)
		}

		return appErrors.DatabaseError("Failed to retrieve cart item").WithError(err)
	}

	if err := s.cartRepo.DetachItem(ctx, cart.ID, item.ID, item.Price); err != nil {
		return appErrors.DatabaseError("Failed to remove product from cart").WithError(err)
	}

	if err := s.cartRepo.DeleteItem(ctx, item.ID); err != nil {
		return appErrors.DatabaseError("Failed to remove product from cart").WithError(err)
	}

	if _, err := s.cartRepo.DeleteCartIfEmpty(ctx, cart.ID); err != nil {
		return appErrors.DatabaseError("Failed to clean up empty cart").WithError(err)
	}

	return nil
}

func (s *cartService) ClearCart(ctx context.Context, userID bson.ObjectID) error {

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return appErrors.NotFoundError("Cart not found").WithError(err)
		}

		return appErrors.DatabaseError("Failed to retrieve cart").WithError(err)
	}

	if _, err := s.cartRepo.DeleteItems(ctx, cart.Items); err != nil {
		return appErrors.DatabaseError("Failed to clear cart").WithError(err)
	}

	if err := s.cartRepo.DeleteCart(ctx, cart.ID); err != nil {
		return appErrors.DatabaseError("Failed to clear cart").WithError(err)
	}

	return nil
}
