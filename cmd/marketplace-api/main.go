package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopsphere/marketplace-api/internal/api/handlers"
	"github.com/shopsphere/marketplace-api/internal/api/middleware"
	"github.com/shopsphere/marketplace-api/internal/cache"
	"github.com/shopsphere/marketplace-api/internal/config"
	"github.com/shopsphere/marketplace-api/internal/health"
	"github.com/shopsphere/marketplace-api/internal/metrics"
	"github.com/shopsphere/marketplace-api/internal/models"
	repository "github.com/shopsphere/marketplace-api/internal/repositories"
	service "github.com/shopsphere/marketplace-api/internal/services"
	"github.com/shopsphere/marketplace-api/pkg/s3"
	"github.com/shopsphere/marketplace-api/pkg/sendGrid"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx := context.Background()

	// Document store
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(context.Background()); err != nil {
			slog.Error("Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("Database connection closed")
		}
	}()

	// Redis: login rate limiting plus the product cache
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rateLimitRepo := repository.NewRateLimitRepo(redisClient, &cfg.RateConfig)
	productCache := cache.NewRedisCache(redisClient, &cfg.Cache)

	// Blob store for product images
	blobStore, err := s3.NewClient(ctx, &cfg.S3)
	if err != nil {
		slog.Error("Error initializing blob store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	emailService := sendGrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	jwtKey := []byte(cfg.Security.JWTKey)

	userService := service.NewUserService(repos.User, rateLimitRepo, &cfg.Security)
	userHandler := handlers.NewUserHandler(userService)
	productService := service.NewProductService(repos.Product, blobStore, productCache, logger)
	productHandler := handlers.NewProductHandler(productService)
	cartService := service.NewCartService(repos.Cart, repos.Product)
	cartHandler := handlers.NewCartHandler(cartService)
	orderService := service.NewOrderService(repos.Order, repos.Cart, emailService, logger)
	orderHandler := handlers.NewOrderHandler(orderService)
	authMiddleware := middleware.NewAuthMiddleware(jwtKey)

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{BlobStore: blobStore})
	if err != nil {
		slog.Error("Error initializing health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	sellerOrAdmin := middleware.RequireRoles(models.RoleSeller, models.RoleAdmin)

	// Setup router
	routerMux := http.NewServeMux()

	// auth
	routerMux.HandleFunc("POST /api/v1/auth/register", userHandler.Register())
	routerMux.HandleFunc("POST /api/v1/auth/login", userHandler.Login())

	// user administration
	routerMux.HandleFunc("GET /api/v1/users", authMiddleware.Authenticate(adminOnly(userHandler.ListUsers())))
	routerMux.HandleFunc("GET /api/v1/users/{id}", authMiddleware.Authenticate(adminOnly(userHandler.GetUser())))
	routerMux.HandleFunc("PUT /api/v1/users/{id}", authMiddleware.Authenticate(adminOnly(userHandler.UpdateUser())))
	routerMux.HandleFunc("DELETE /api/v1/users/{id}", authMiddleware.Authenticate(adminOnly(userHandler.DeleteUser())))

	// seller catalog
	routerMux.HandleFunc("POST /api/v1/products", authMiddleware.Authenticate(sellerOrAdmin(productHandler.CreateProduct())))
	routerMux.HandleFunc("GET /api/v1/products", authMiddleware.Authenticate(sellerOrAdmin(productHandler.ListProducts())))
	routerMux.HandleFunc("GET /api/v1/products/{id}", authMiddleware.Authenticate(sellerOrAdmin(productHandler.GetProduct())))
	routerMux.HandleFunc("PUT /api/v1/products/{id}", authMiddleware.Authenticate(sellerOrAdmin(productHandler.UpdateProduct())))
	routerMux.HandleFunc("DELETE /api/v1/products/{id}", authMiddleware.Authenticate(sellerOrAdmin(productHandler.DeleteProduct())))

	// cart
	routerMux.HandleFunc("GET /api/v1/carts", authMiddleware.Authenticate(cartHandler.GetCart()))
	routerMux.HandleFunc("DELETE /api/v1/carts", authMiddleware.Authenticate(cartHandler.ClearCart()))
	routerMux.HandleFunc("POST /api/v1/carts/items", authMiddleware.Authenticate(cartHandler.AddToCart()))
	routerMux.HandleFunc("PUT /api/v1/carts/items", authMiddleware.Authenticate(cartHandler.UpdateCart()))
	routerMux.HandleFunc("DELETE /api/v1/carts/items/{productId}", authMiddleware.Authenticate(cartHandler.RemoveFromCart()))

	// orders
	routerMux.HandleFunc("POST /api/v1/orders/{cartId}", authMiddleware.Authenticate(orderHandler.CreateOrder()))
	routerMux.HandleFunc("GET /api/v1/orders", authMiddleware.Authenticate(orderHandler.GetOrders()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", authMiddleware.Authenticate(orderHandler.GetOrderByID()))
	routerMux.HandleFunc("PUT /api/v1/orders/{id}", authMiddleware.Authenticate(adminOnly(orderHandler.UpdateOrder())))
	routerMux.HandleFunc("DELETE /api/v1/orders/{id}", authMiddleware.Authenticate(adminOnly(orderHandler.DeleteOrder())))

	// operational endpoints
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = middleware.Logging(handler)
	handler = metrics.Middleware(handler)

	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("Server is starting", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("Failed to start server", slog.String("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("Shutdown signal received, stopping the server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("Server shut down gracefully")
	}
}
