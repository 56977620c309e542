package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopsphere/marketplace-api/internal/models"
	"github.com/shopsphere/marketplace-api/internal/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CartRepository persists carts and their item documents. Every cart
// mutation that touches items and totalPrice together goes through a single
// UpdateOne with $push/$pull and $inc, so concurrent requests for the same
// user cannot lose updates between a read and a write.
type CartRepository interface {
	GetCartByUserID(ctx context.Context, userID bson.ObjectID) (*models.Cart, error)
	GetCartByID(ctx context.Context, id bson.ObjectID) (*models.Cart, error)
	GetCartDetail(ctx context.Context, userID bson.ObjectID) (*models.CartDetail, error)

	CreateItem(ctx context.Context, item *models.CartItem) error
	GetItem(ctx context.Context, userID, productID bson.ObjectID) (*models.CartItem, error)
	UpdateItem(ctx context.Context, id bson.ObjectID, quantity int64, price float64) error
	DeleteItem(ctx context.Context, id bson.ObjectID) error
	DeleteItems(ctx context.Context, ids []bson.ObjectID) (int64, error)

	AttachItem(ctx context.Context, userID, itemID bson.ObjectID, price float64) error
	AdjustTotal(ctx context.Context, cartID bson.ObjectID, delta float64) error
	DetachItem(ctx context.Context, cartID, itemID bson.ObjectID, price float64) error
	DeleteCartIfEmpty(ctx context.Context, cartID bson.ObjectID) (bool, error)
	DeleteCart(ctx context.Context, cartID bson.ObjectID) error
}

type cartRepository struct {
	carts *mongo.Collection
	items *mongo.Collection
}

func NewCartRepo(db *mongo.Database) CartRepository {
	return &cartRepository{
		carts: db.Collection(cartsCollection),
		items: db.Collection(cartItemsCollection),
	}
}

func (r *cartRepository) GetCartByUserID(ctx context.Context, userID bson.ObjectID) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	cart := &models.Cart{}

	err := r.carts.FindOne(dbCtx, bson.M{"userId": userID}).Decode(cart)
	if err != nil {
		return nil, err
	}

	return cart, nil
}

func (r *cartRepository) GetCartByID(ctx context.Context, id bson.ObjectID) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	cart := &models.Cart{}

	err := r.carts.FindOne(dbCtx, bson.M{"_id": id}).Decode(cart)
	if err != nil {
		return nil, err
	}

	return cart, nil
}

// GetCartDetail expands the cart's item references and joins each item's
// product, the read model behind GetCart.
func (r *cartRepository) GetCartDetail(ctx context.Context, userID bson.ObjectID) (*models.CartDetail, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         cartItemsCollection,
			"localField":   "items",
			"foreignField": "_id",
			"as":           "items",
			"pipeline": bson.A{
				bson.M{"$lookup": bson.M{
					"from":         productsCollection,
					"localField":   "productId",
					"foreignField": "_id",
					"as":           "product",
				}},
				bson.M{"$unwind": bson.M{
					"path":                       "$product",
					"preserveNullAndEmptyArrays": true,
				}},
			},
		}}},
	}

	cursor, err := r.carts.Aggregate(dbCtx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("querying cart: %w", err)
	}

	defer cursor.Close(dbCtx)

	var details []models.CartDetail
	if err := cursor.All(dbCtx, &details); err != nil {
		return nil, fmt.Errorf("decoding cart: %w", err)
	}

	if len(details) == 0 {
		return nil, mongo.ErrNoDocuments
	}

	return &details[0], nil
}

func (r *cartRepository) CreateItem(ctx context.Context, item *models.CartItem) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	res, err := r.items.InsertOne(dbCtx, item)
	if err != nil {
		return err
	}

	item.ID = res.InsertedID.(bson.ObjectID)

	return nil
}

func (r *cartRepository) GetItem(ctx context.Context, userID, productID bson.ObjectID) (*models.CartItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	item := &models.CartItem{}

	err := r.items.FindOne(dbCtx, bson.M{"userId": userID, "productId": productID}).Decode(item)
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (r *cartRepository) UpdateItem(ctx context.Context, id bson.ObjectID, quantity int64, price float64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	res, err := r.items.UpdateOne(
		dbCtx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"quantity": quantity, "price": price}},
	)
	if err != nil {
		return fmt.Errorf("updating cart item: %w", err)
	}

	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, id bson.ObjectID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	if _, err := r.items.DeleteOne(dbCtx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("deleting cart item: %w", err)
	}

	return nil
}

func (r *cartRepository) DeleteItems(ctx context.Context, ids []bson.ObjectID) (int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	res, err := r.items.DeleteMany(dbCtx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("deleting cart items: %w", err)
	}

	return res.DeletedCount, nil
}

// AttachItem appends the item reference and bumps totalPrice in one write,
// creating the cart on first use.
func (r *cartRepository) AttachItem(ctx context.Context, userID, itemID bson.ObjectID, price float64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	_, err := r.carts.UpdateOne(
		dbCtx,
		bson.M{"userId": userID},
		bson.M{
			"$push":        bson.M{"items": itemID},
			"$inc":         bson.M{"totalPrice": price},
			"$setOnInsert": bson.M{"createdAt": time.Now()},
		},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("attaching cart item: %w", err)
	}

	return nil
}

func (r *cartRepository) AdjustTotal(ctx context.Context, cartID bson.ObjectID, delta float64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	res, err := r.carts.UpdateOne(
		dbCtx,
		bson.M{"_id": cartID},
		bson.M{"$inc": bson.M{"totalPrice": delta}},
	)
	if err != nil {
		return fmt.Errorf("adjusting cart total: %w", err)
	}

	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

func (r *cartRepository) DetachItem(ctx context.Context, cartID, itemID bson.ObjectID, price float64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	res, err := r.carts.UpdateOne(
		dbCtx,
		bson.M{"_id": cartID},
		bson.M{
			"$pull": bson.M{"items": itemID},
			"$inc":  bson.M{"totalPrice": -price},
		},
	)
	if err != nil {
		return fmt.Errorf("detaching cart item: %w", err)
	}

	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

// DeleteCartIfEmpty removes the cart only when its items array is empty;
// the $size filter keeps the check-and-delete atomic.
func (r *cartRepository) DeleteCartIfEmpty(ctx context.Context, cartID bson.ObjectID) (bool, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	res, err := r.carts.DeleteOne(dbCtx, bson.M{"_id": cartID, "items": bson.M{"$size": 0}})
	if err != nil {
		return false, fmt.Errorf("deleting empty cart: %w", err)
	}

	return res.DeletedCount > 0, nil
}

func (r *cartRepository) DeleteCart(ctx context.Context, cartID bson.ObjectID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	res, err := r.carts.DeleteOne(dbCtx, bson.M{"_id": cartID})
	if err != nil {
		return fmt.Errorf("deleting cart: %w", err)
	}

	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}
