package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopsphere/marketplace-api/internal/config"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	usersCollection     = "users"
	productsCollection  = "products"
	imagesCollection    = "product_images"
	cartsCollection     = "carts"
	cartItemsCollection = "cart_items"
	ordersCollection    = "orders"
)

type Repository struct {
	client *mongo.Client
	db     *mongo.Database

	User    UserRepository
	Product ProductRepository
	Cart    CartRepository
	Order   OrderRepository
}

func New(cfg *config.Config) (*Repository, error) {

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	clientOptions := options.Client().ApplyURI(cfg.Mongo.URI).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Ping to make sure the deployment is reachable
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	db := client.Database(cfg.Mongo.Database)

	if err := ensureIndexes(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	return &Repository{
		client:  client,
		db:      db,
		User:    NewUserRepo(db),
		Product: NewProductRepo(db),
		Cart:    NewCartRepo(db),
		Order:   NewOrderRepo(db),
	}, nil
}

func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

type indexConfig struct {
	collection string
	model      mongo.IndexModel
}

// The unique indexes replace the original application-level existence
// checks: duplicate email, duplicate product name, a second cart per user
// and a second cart item per (userId, productId) all fail at the store.
var requiredIndexes = []indexConfig{
	{
		collection: usersCollection,
		model: mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_user_email_unique"),
		},
	},
	{
		collection: productsCollection,
		model: mongo.IndexModel{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_product_name_unique"),
		},
	},
	{
		collection: productsCollection,
		model: mongo.IndexModel{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetName("idx_product_seller"),
		},
	},
	{
		collection: imagesCollection,
		model: mongo.IndexModel{
			Keys:    bson.D{{Key: "productId", Value: 1}},
			Options: options.Index().SetName("idx_image_product"),
		},
	},
	{
		collection: cartsCollection,
		model: mongo.IndexModel{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_cart_user_unique"),
		},
	},
	{
		collection: cartItemsCollection,
		model: mongo.IndexModel{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "productId", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("idx_cart_item_unique"),
		},
	},
	{
		collection: ordersCollection,
		model: mongo.IndexModel{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index().SetName("idx_user_orders"),
		},
	},
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {

	for _, idx := range requiredIndexes {
		name, err := db.Collection(idx.collection).Indexes().CreateOne(ctx, idx.model)
		if err != nil {
			return fmt.Errorf("creating index on %s: %w", idx.collection, err)
		}

		slog.Debug("Index ensured", slog.String("collection", idx.collection), slog.String("index", name))
	}

	return nil
}
