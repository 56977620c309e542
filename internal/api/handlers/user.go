package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/shopsphere/marketplace-api/internal/api/middleware"
	appErrors "github.com/shopsphere/marketplace-api/internal/errors"
	"github.com/shopsphere/marketplace-api/internal/models"
	service "github.com/shopsphere/marketplace-api/internal/services"
	"github.com/shopsphere/marketplace-api/internal/utils"
	"github.com/shopsphere/marketplace-api/internal/utils/response"
)

type UserHandler struct {
	userService service.UserService
	validator   *validator.Validate
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService, validator: validator.New()}
}

func (h *UserHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.RegisterRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		user, err := h.userService.RegisterUser(r.Context(), &req)
		if err != nil {
			logger.Warn("User registration failed",
				slog.String("email", req.Email),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("User registered", slog.String("userId", user.ID.Hex()))
		response.Success(w, http.StatusCreated, user)
	}
}

func (h *UserHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.LoginRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		resp, err := h.userService.LoginUser(r.Context(), &req)
		if err != nil {
			logger.Warn("Login failed",
				slog.String("email", req.Email),
				slog.String("error", err.Error()))

			// rate-limited and bad-credential responses still carry a body
			// with the remaining tries or the retry delay
			if resp != nil {
				if appErr, ok := appErrors.IsAppError(err); ok {
					response.WriteJson(w, appErr.StatusCode, resp)

					return
				}
			}

			response.Error(w, err)

			return
		}

		logger.Info("User logged in", slog.String("email", req.Email))
		response.Success(w, http.StatusOK, resp)
	}
}

// ListUsers is admin only; routing enforces the role.
func (h *UserHandler) ListUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		filter := models.UserFilter{
			Search: r.URL.Query().Get("search"),
			Role:   models.Role(r.URL.Query().Get("role")),
		}

		users, err := h.userService.ListUsers(r.Context(), filter)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, users)
	}
}

func (h *UserHandler) GetUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)

			return
		}

		user, err := h.userService.GetUser(r.Context(), userID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, user)
	}
}

func (h *UserHandler) UpdateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		userID, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)

			return
		}

		var req models.UpdateUserRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		user, err := h.userService.UpdateUser(r.Context(), userID, &req)
		if err != nil {
			logger.Warn("Failed to update user",
				slog.String("userId", userID.Hex()),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, user)
	}
}

func (h *UserHandler) DeleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		userID, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)

			return
		}

		if err := h.userService.DeleteUser(r.Context(), userID); err != nil {
			logger.Warn("Failed to delete user",
				slog.String("userId", userID.Hex()),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("User deleted", slog.String("userId", userID.Hex()))
		response.Success(w, http.StatusOK, map[string]string{"message": "User deleted"})
	}
}
