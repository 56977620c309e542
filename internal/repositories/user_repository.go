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

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	ListUsers(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	UpdateUser(ctx context.Context, id bson.ObjectID, patch bson.M) (*models.User, error)
	DeleteUser(ctx context.Context, id bson.ObjectID) error
}

type userRepository struct {
	users *mongo.Collection
}

func NewUserRepo(db *mongo.Database) UserRepository {
	return &userRepository{users: db.Collection(usersCollection)}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	res, err := r.users.InsertOne(dbCtx, user)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}

	user.ID = res.InsertedID.(bson.ObjectID)

	return nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	user := &models.User{}

	err := r.users.FindOne(dbCtx, bson.M{"email": email}).Decode(user)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	user := &models.User{}

	err := r.users.FindOne(dbCtx, bson.M{"_id": id}).Decode(user)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) ListUsers(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := bson.M{}

	if filter.Search != "" {
		query["name"] = bson.M{"$regex": filter.Search, "$options": "i"}
	}

	if filter.Role != "" {
		query["role"] = filter.Role
	}

	cursor, err := r.users.Find(dbCtx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}

	defer cursor.Close(dbCtx)

	users := []models.User{}
	if err := cursor.All(dbCtx, &users); err != nil {
		return nil, fmt.Errorf("decoding users: %w", err)
	}

	return users, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, id bson.ObjectID, patch bson.M) (*models.User, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	user := &models.User{}

	err := r.users.FindOneAndUpdate(
		dbCtx,
		bson.M{"_id": id},
		bson.M{"$set": patch},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(user)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) DeleteUser(ctx context.Context, id bson.ObjectID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	res, err := r.users.DeleteOne(dbCtx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}
