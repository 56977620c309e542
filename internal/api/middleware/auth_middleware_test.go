package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopsphere/marketplace-api/internal/api/middleware"
	"github.com/shopsphere/marketplace-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var testJwtKey = []byte("test-secret-key-123456789012345")

func createTestToken(userID bson.ObjectID, email string, role models.Role, duration time.Duration, key []byte, method jwt.SigningMethod) (string, error) {
	claims := &models.Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(method, claims)

	return token.SignedString(key)
}

func TestAuthMiddleware(t *testing.T) {
	// Arrange
	authMiddleware := middleware.NewAuthMiddleware(testJwtKey)
	userID := bson.NewObjectID()
	userEmail := "test@example.com"

	mockNextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.ClaimsFromContext(r.Context())
		require.NotNil(t, claims, "User claims should be in context")
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, userEmail, claims.Email)
		assert.Equal(t, models.RoleUser, claims.Role)

		logger := middleware.LoggerFromContext(r.Context())
		require.NotNil(t, logger)

		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{
			name: "Success - Valid Token",
			authHeader: func() string {
				token, err := createTestToken(userID, userEmail, models.RoleUser, time.Hour, testJwtKey, jwt.SigningMethodHS256)
				require.NoError(t, err)

				return "Bearer " + token
			}(),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Fail - Missing Authorization Header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Fail - Invalid Authorization Header Format",
			authHeader:     "InvalidTokenFormat",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Fail - Malformed Token",
			authHeader:     "Bearer not.a.valid.token",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Fail - Wrong Signing Key",
			authHeader: func() string {
				wrongKey := []byte("different-secret-key-0987654321")
				token, err := createTestToken(userID, userEmail, models.RoleUser, time.Hour, wrongKey, jwt.SigningMethodHS256)
				require.NoError(t, err)

				return "Bearer " + token
			}(),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Fail - Expired Token",
			authHeader: func() string {
				token, err := createTestToken(userID, userEmail, models.RoleUser, -time.Hour, testJwtKey, jwt.SigningMethodHS256)
				require.NoError(t, err)

				return "Bearer " + token
			}(),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			req := httptest.NewRequest(http.MethodGet, "/api/v1/carts", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}

			rr := httptest.NewRecorder()

			// Act
			authMiddleware.Authenticate(mockNextHandler).ServeHTTP(rr, req)

			// Assert
			assert.Equal(t, tc.expectedStatus, rr.Code)
		})
	}
}

func TestRequireRoles(t *testing.T) {
	// Arrange
	authMiddleware := middleware.NewAuthMiddleware(testJwtKey)
	userID := bson.NewObjectID()

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusOK)
	})

	adminOnly := authMiddleware.Authenticate(middleware.RequireRoles(models.RoleAdmin)(next))

	tests := []struct {
		name           string
		role           models.Role
		expectedStatus int
		expectNextCall bool
	}{
		{name: "Success - Admin Allowed", role: models.RoleAdmin, expectedStatus: http.StatusOK, expectNextCall: true},
		{name: "Fail - User Forbidden", role: models.RoleUser, expectedStatus: http.StatusForbidden, expectNextCall: false},
		{name: "Fail - Seller Forbidden", role: models.RoleSeller, expectedStatus: http.StatusForbidden, expectNextCall: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			nextCalled = false
			token, err := createTestToken(userID, "test@example.com", tc.role, time.Hour, testJwtKey, jwt.SigningMethodHS256)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
			req.Header.Set("Authorization", "Bearer "+token)

			rr := httptest.NewRecorder()

			// Act
			adminOnly.ServeHTTP(rr, req)

			// Assert
			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Equal(t, tc.expectNextCall, nextCalled)
		})
	}
}

func TestRequireRolesWithoutClaims(t *testing.T) {
	// Arrange
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.RequireRoles(models.RoleAdmin)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	rr := httptest.NewRecorder()

	// Act
	handler.ServeHTTP(rr, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
