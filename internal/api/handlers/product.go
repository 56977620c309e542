package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/shopsphere/marketplace-api/internal/api/middleware"
	"github.com/shopsphere/marketplace-api/internal/errors"
	"github.com/shopsphere/marketplace-api/internal/models"
	service "github.com/shopsphere/marketplace-api/internal/services"
	"github.com/shopsphere/marketplace-api/internal/utils"
	"github.com/shopsphere/marketplace-api/internal/utils/response"
)

type ProductHandler struct {
	productService service.ProductService
	validator      *validator.Validate
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService, validator: validator.New()}
}

func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		var req models.CreateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		product, err := h.productService.CreateProduct(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Warn("Failed to create product",
				slog.String("name", req.Name),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Product created", slog.String("productId", product.ID.Hex()))
		response.Success(w, http.StatusCreated, product)
	}
}

func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		productID, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)

			return
		}

		product, err := h.productService.GetProduct(r.Context(), productID, claims.UserID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// parseProductFilter reads the optional query bounds; a malformed number is
// reported, not ignored.
func parseProductFilter(r *http.Request) (models.ProductFilter, error) {

	filter := models.ProductFilter{Search: r.URL.Query().Get("search")}

	if raw := r.URL.Query().Get("price_min"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, errors.BadRequestError("Invalid price_min").WithError(err)
		}

		filter.PriceMin = &v
	}

	if raw := r.URL.Query().Get("price_max"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, errors.BadRequestError("Invalid price_max").WithError(err)
		}

		filter.PriceMax = &v
	}

	if raw := r.URL.Query().Get("stock_min"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, errors.BadRequestError("Invalid stock_min").WithError(err)
		}

		filter.StockMin = &v
	}

	if raw := r.URL.Query().Get("stock_max"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, errors.BadRequestError("Invalid stock_max").WithError(err)
		}

		filter.StockMax = &v
	}

	return filter, nil
}

func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		filter, err := parseProductFilter(r)
		if err != nil {
			response.Error(w, err)

			return
		}

		products, err := h.productService.ListProducts(r.Context(), claims.UserID, filter)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, products)
	}
}

func (h *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		productID, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)

			return
		}

		var req models.UpdateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		product, err := h.productService.UpdateProduct(r.Context(), productID, claims.UserID, &req)
		if err != nil {
			logger.Warn("Failed to update product",
				slog.String("productId", productID.Hex()),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

func (h *ProductHandler) DeleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		productID, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)

			return
		}

		if err := h.productService.DeleteProduct(r.Context(), productID, claims.UserID); err != nil {
			logger.Warn("Failed to delete product",
				slog.String("productId", productID.Hex()),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Product deleted", slog.String("productId", productID.Hex()))
		response.Success(w, http.StatusOK, map[string]string{"message": "Product deleted"})
	}
}
