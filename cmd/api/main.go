package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"copyforge-core-shopify-layer/internal/application"
	apiinfra "copyforge-core-shopify-layer/internal/infrastructure/api"
	"copyforge-core-shopify-layer/internal/infrastructure/encryption"
	"copyforge-core-shopify-layer/internal/infrastructure/metrics"
	scopemiddleware "copyforge-core-shopify-layer/internal/infrastructure/middleware"
	"copyforge-core-shopify-layer/internal/infrastructure/provider"
	"copyforge-core-shopify-layer/internal/infrastructure/repository"
	shopifyinfra "copyforge-core-shopify-layer/internal/infrastructure/shopify"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	// Get configuration from environment
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	// Connect to MongoDB
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	db := client.Database(os.Getenv("MONGODB_DATABASE"))

	// Get encryption key
	encryptionKey := os.Getenv("ENCRYPTION_KEY")
	if encryptionKey == "" {
		logger.Fatal().Msg("ENCRYPTION_KEY environment variable is required")
	}

	// Initialize infrastructure (implementations)
	encryptionService, err := encryption.NewService(encryptionKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}

	apiKey := os.Getenv("SHOPIFY_API_KEY")
	apiSecret := os.Getenv("SHOPIFY_API_SECRET")
	if apiKey == "" || apiSecret == "" {
		logger.Fatal().Msg("SHOPIFY_API_KEY and SHOPIFY_API_SECRET environment variables are required")
	}

	webhookSecret := os.Getenv("SHOPIFY_WEBHOOK_SECRET")
	if webhookSecret == "" {
		webhookSecret = apiSecret
	}

	// Initialize Shopify Admin API access
	clientPool := shopifyinfra.NewClientPool(apiKey, apiSecret, logger)
	adminClient := shopifyinfra.NewAdminClient(clientPool, logger)
	metafieldStore := shopifyinfra.NewMetafieldStore(adminClient, logger)
	webhookVerifier := shopifyinfra.NewWebhookVerifier(webhookSecret)

	// Initialize providers and repositories
	registry := provider.NewRegistry()
	logRepo := repository.NewMongoGenerationLogRepository(db)
	appMetrics := metrics.New()

	// Initialize application services
	apiKeyService := application.NewAPIKeyService(metafieldStore, encryptionService, registry, logger)
	settingsService := application.NewSettingsService(metafieldStore, logger)
	contentService := application.NewContentService(apiKeyService, settingsService, registry, logRepo, appMetrics, logger)
	productService := application.NewProductService(adminClient, logger)

	apiHandler := apiinfra.NewHandler(contentService, productService, apiKeyService, settingsService, logRepo, logger)
	webhookHandler := apiinfra.NewWebhookHandler(webhookVerifier, logRepo, logger)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Shop scope middleware (extracts shop domain and access token from headers)
	// This middleware will skip public routes like /health, /metrics and /swagger/*
	r.Use(scopemiddleware.ShopScopeMiddleware(logger))

	// Public routes (no shop scope required)
	// Health check - must be public for monitoring
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Prometheus metrics - public
	r.Handle("/metrics", promhttp.Handler())

	// Swagger documentation - public
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"), // The URL pointing to API definition
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	// Webhook endpoint (verified by HMAC, not shop scope)
	r.Post("/webhooks/app-uninstalled", webhookHandler.AppUninstalled)

	// Routes requiring shop scope
	r.Route("/api", func(r chi.Router) {
		r.Post("/generate-content", apiHandler.GenerateContent)
		r.Post("/regenerate-content", apiHandler.RegenerateContent)
		r.Post("/generate-from-image", apiHandler.GenerateFromImage)
		r.Post("/apply-content", apiHandler.ApplyContent)

		r.Get("/api-key", apiHandler.GetAPIKeyStatus)
		r.Put("/api-key", apiHandler.SaveAPIKey)
		r.Delete("/api-key", apiHandler.DeleteAPIKey)

		r.Get("/settings", apiHandler.GetSettings)
		r.Put("/settings", apiHandler.SaveSettings)

		r.Get("/generation-logs", apiHandler.ListGenerationLogs)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info().Str("port", port).Msg("Starting API server")
	logger.Info().Msg("Swagger documentation available at http://localhost:" + port + "/swagger/index.html")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}
