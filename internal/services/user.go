package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopsphere/marketplace-api/internal/config"
	appErrors "github.com/shopsphere/marketplace-api/internal/errors"
	"github.com/shopsphere/marketplace-api/internal/models"
	repository "github.com/shopsphere/marketplace-api/internal/repositories"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	RegisterUser(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	LoginUser(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	ListUsers(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	GetUser(ctx context.Context, id bson.ObjectID) (*models.User, error)
	UpdateUser(ctx context.Context, id bson.ObjectID, req *models.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id bson.ObjectID) error
}

type userService struct {
	userRepo      repository.UserRepository
	rateLimitRepo repository.RateLimitRepository
	security      *config.Security
}

func NewUserService(userRepo repository.UserRepository, rateLimitRepo repository.RateLimitRepository, security *config.Security) UserService {
	return &userService{
		userRepo:      userRepo,
		rateLimitRepo: rateLimitRepo,
		security:      security,
	}
}

// Emails are stored lowercased so the unique index catches case variants
// of the same address.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterUser creates an account with a bcrypt-hashed password. The role
// defaults to "user" when the request leaves it out.
func (s *userService) RegisterUser(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.InternalError("Failed to process password").WithError(err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Name:      req.Name,
		Email:     normalizeEmail(req.Email),
		Password:  string(hashed),
		Role:      role,
		CreatedAt: time.Now(),
	}

	// The unique email index decides; no racy pre-check.
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, appErrors.ConflictError("Email already registered").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to create user").WithError(err)
	}

	return user, nil
}

func (s *userService) LoginUser(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {

	email := normalizeEmail(req.Email)

	allowed, remaining, retryAfter, err := s.rateLimitRepo.CheckLoginRateLimit(ctx, email)
	if err != nil {
		return nil, appErrors.InternalError("Failed to check rate limit").WithError(err)
	}

	if !allowed {
		return &models.LoginResponse{
			Success:    false,
			RetryAfter: retryAfter,
			Message:    "Too many login attempts, please try again later",
		}, appErrors.TooManyRequestsError("Too many login attempts")
	}

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appErrors.UnauthorizedError("Invalid email or password").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve user").WithError(err)
	}

	if user.Deactivated {
		return nil, appErrors.ForbiddenError("Account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return &models.LoginResponse{
			Success:        false,
			RemainingTries: remaining,
			Message:        "Invalid email or password",
		}, appErrors.UnauthorizedError("Invalid email or password").WithError(err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, appErrors.InternalError("Failed to generate token").WithError(err)
	}

	return &models.LoginResponse{
		Success:   true,
		Token:     token,
		ExpiresIn: int(s.security.TokenTTL.Seconds()),
	}, nil
}

func (s *userService) generateToken(user *models.User) (string, error) {

	claims := &models.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.security.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(s.security.JWTKey))
}

func (s *userService) ListUsers(ctx context.Context, filter models.UserFilter) ([]models.User, error) {

	users, err := s.userRepo.ListUsers(ctx, filter)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to retrieve users").WithError(err)
	}

	return users, nil
}

func (s *userService) GetUser(ctx context.Context, id bson.ObjectID) (*models.User, error) {

	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appErrors.NotFoundError("User not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve user").WithError(err)
	}

	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, id bson.ObjectID, req *models.UpdateUserRequest) (*models.User, error) {

	patch := bson.M{}

	if req.Name != nil {
		patch["name"] = *req.Name
	}

	if req.Email != nil {
		patch["email"] = normalizeEmail(*req.Email)
	}

	if req.Role != nil {
		patch["role"] = *req.Role
	}

	if req.Deactivated != nil {
		patch["deactivated"] = *req.Deactivated
	}

	if len(patch) == 0 {
		return nil, appErrors.BadRequestError("No fields to update")
	}

	user, err := s.userRepo.UpdateUser(ctx, id, patch)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appErrors.NotFoundError("User not found").WithError(err)
		}

		if mongo.IsDuplicateKeyError(err) {
			return nil, appErrors.ConflictError("Email already registered").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to update user").WithError(err)
	}

	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id bson.ObjectID) error {

	err := s.userRepo.DeleteUser(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return appErrors.NotFoundError("User not found").WithError(err)
		}

		return appErrors.DatabaseError("Failed to delete user").WithError(err)
	}

	return nil
}
