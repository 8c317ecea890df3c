package config

import (
	"fmt"
	"os"
)

type Config struct {
	// GCP
	ProjectID     string
	StorageBucket string

	// Firestore collections
	CustomersCollection string
	OrdersCollection    string
	StaffCollection     string

	// Cities registry
	CitiesAPI       string
	CitiesCachePath string

	// Server
	Port        string
	Environment string

	// MemoryBackend swaps the GCP backends for in-memory ones. Local
	// development only.
	MemoryBackend bool
}

func Load() (*Config, error) {
	cfg := &Config{
		ProjectID:     getEnv("PROJECT_ID", ""),
		StorageBucket: getEnv("STORAGE_BUCKET", ""),

		CustomersCollection: getEnv("CUSTOMERS_COLLECTION", "users_prod"),
		OrdersCollection:    getEnv("ORDERS_COLLECTION", "orders_prod"),
		StaffCollection:     getEnv("STAFF_COLLECTION", "staff"),

		CitiesAPI:       getEnv("CITIES_API", ""),
		CitiesCachePath: getEnv("CITIES_CACHE_PATH", ""),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		MemoryBackend: getEnv("MEMORY_BACKEND", "") == "true",
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MemoryBackend {
		return nil
	}
	if c.ProjectID == "" {
		return fmt.Errorf("PROJECT_ID is required")
	}
	if c.StorageBucket == "" {
		return fmt.Errorf("STORAGE_BUCKET is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
