package repository

import (
	"context"
	"fmt"

	"github.com/shopsphere/marketplace-api/internal/models"
	"github.com/shopsphere/marketplace-api/internal/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id bson.ObjectID) (*models.Order, error)
	GetUserOrder(ctx context.Context, id, userID bson.ObjectID) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID bson.ObjectID) ([]models.Order, error)
	UpdateOrder(ctx context.Context, id bson.ObjectID, patch bson.M) (*models.Order, error)
	DeleteOrder(ctx context.Context, id bson.ObjectID) error
}

type orderRepository struct {
	orders *mongo.Collection
}

func NewOrderRepo(db *mongo.Database) OrderRepository {
	return &orderRepository{orders: db.Collection(ordersCollection)}
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	res, err := r.orders.InsertOne(dbCtx, order)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	order.ID = res.InsertedID.(bson.ObjectID)

	return nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id bson.ObjectID) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	order := &models.Order{}

	err := r.orders.FindOne(dbCtx, bson.M{"_id": id}).Decode(order)
	if err != nil {
		return nil, err
	}

	return order, nil
}

// GetUserOrder scopes the lookup to the owner; a foreign order behaves like
// a missing one.
func (r *orderRepository) GetUserOrder(ctx context.Context, id, userID bson.ObjectID) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	order := &models.Order{}

	err := r.orders.FindOne(dbCtx, bson.M{"_id": id, "userId": userID}).Decode(order)
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) ListOrdersByUser(ctx context.Context, userID bson.ObjectID) ([]models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	cursor, err := r.orders.Find(
		dbCtx,
		bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}

	defer cursor.Close(dbCtx)

	orders := []models.Order{}
	if err := cursor.All(dbCtx, &orders); err != nil {
		return nil, fmt.Errorf("decoding orders: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) UpdateOrder(ctx context.Context, id bson.ObjectID, patch bson.M) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	order := &models.Order{}

	err := r.orders.FindOneAndUpdate(
		dbCtx,
		bson.M{"_id": id},
		bson.M{"$set": patch},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(order)
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) DeleteOrder(ctx context.Context, id bson.ObjectID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	res, err := r.orders.DeleteOne(dbCtx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}

	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}
