package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PROJECT_ID", "demo-project")
	t.Setenv("STORAGE_BUCKET", "demo-bucket")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "users_prod", cfg.CustomersCollection)
	assert.Equal(t, "orders_prod", cfg.OrdersCollection)
	assert.Equal(t, "staff", cfg.StaffCollection)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.MemoryBackend)
}

func TestLoadRequiresGCPSettings(t *testing.T) {
	t.Setenv("PROJECT_ID", "")
	t.Setenv("STORAGE_BUCKET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestMemoryBackendSkipsGCPValidation(t *testing.T) {
	t.Setenv("PROJECT_ID", "")
	t.Setenv("STORAGE_BUCKET", "")
	t.Setenv("MEMORY_BACKEND", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.MemoryBackend)
}
