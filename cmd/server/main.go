package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	"github.com/guybracha/karinaCrm2/internal/cities"
	"github.com/guybracha/karinaCrm2/internal/config"
	"github.com/guybracha/karinaCrm2/internal/crm"
	"github.com/guybracha/karinaCrm2/internal/gcp"
	"github.com/guybracha/karinaCrm2/internal/handlers"
	"github.com/guybracha/karinaCrm2/internal/middleware"
)

// devVerifier accepts the bearer token text as the principal id. Memory
// backend only; never reachable with the GCP backends.
type devVerifier struct{}

func (devVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	return &auth.Token{UID: idToken}, nil
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	var docs crm.DocumentStore
	var blobs crm.BlobStore
	var verifier middleware.TokenVerifier

	if cfg.MemoryBackend {
		slog.Warn("Running with in-memory backends, data will not persist")
		mem := crm.NewMemoryStore()
		mem.SeedStaff("dev", map[string]any{"name": "dev", "active": true})
		docs = mem
		blobs = crm.NewMemoryBlobStore()
		verifier = devVerifier{}
	} else {
		firestoreClient, err := gcp.NewFirestoreClient(ctx, cfg.ProjectID)
		if err != nil {
			slog.Error("Failed to create Firestore client", "error", err)
			os.Exit(1)
		}
		defer firestoreClient.Close()

		storageClient, err := gcp.NewStorageClient(ctx)
		if err != nil {
			slog.Error("Failed to create storage client", "error", err)
			os.Exit(1)
		}
		defer storageClient.Close()

		authClient, err := gcp.NewAuthClient(ctx, cfg.ProjectID)
		if err != nil {
			slog.Error("Failed to create auth client", "error", err)
			os.Exit(1)
		}

		docs = crm.NewFirestoreStore(firestoreClient, cfg.CustomersCollection, cfg.OrdersCollection, cfg.StaffCollection)
		blobs = crm.NewGCSBlobStore(storageClient, cfg.StorageBucket)
		verifier = authClient
	}

	svc := crm.NewService(docs, blobs, logger)

	var citiesCache cities.Cache = &cities.MemoryCache{}
	if cfg.CitiesCachePath != "" {
		citiesCache = &cities.FileCache{Path: cfg.CitiesCachePath}
	}
	citiesSvc := cities.New(cfg.CitiesAPI, citiesCache, logger)

	customersHandler := handlers.NewCustomersHandler(svc)
	graphicsHandler := handlers.NewGraphicsHandler(svc)
	stepsHandler := handlers.NewStepsHandler(svc)
	citiesHandler := handlers.NewCitiesHandler(citiesSvc)

	router := gin.Default()
	router.GET("/health", handlers.HealthHandler)

	api := router.Group("/api/v1")
	api.Use(middleware.Auth(verifier, svc))

	api.GET("/customers", customersHandler.List)
	api.POST("/customers", customersHandler.Create)
	api.GET("/customers/:customer_id", customersHandler.Get)

	api.PUT("/customers/:customer_id/graphics", graphicsHandler.Save)
	api.POST("/customers/:customer_id/graphics", graphicsHandler.Upload)
	api.DELETE("/customers/:customer_id/graphics", graphicsHandler.Delete)

	api.PUT("/customers/:customer_id/steps", stepsHandler.Save)

	api.GET("/cities", citiesHandler.List)

	slog.Info("Server starting", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
