package cities

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registryPayload = `{
	"result": {
		"records": [
			{"שם_ישוב": " תל אביב - יפו "},
			{"שם_ישוב": "ירושלים"},
			{"שם_ישוב": "אילת"},
			{"שם_ישוב": "ירושלים"},
			{"שם_ישוב": ""},
			{"אזור": "דרום"}
		]
	}
}`

func newRegistry(t *testing.T, hits chan<- struct{}) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits != nil {
			hits <- struct{}{}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(registryPayload))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestListColdCacheFetches(t *testing.T) {
	server := newRegistry(t, nil)
	cache := &MemoryCache{}
	svc := New(server.URL, cache, nil)

	cities, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"אילת", "ירושלים", "תל אביב - יפו"}, cities,
		"trimmed, deduplicated, sorted")

	cached, ok := cache.Get()
	require.True(t, ok, "successful fetch warms the cache")
	assert.Equal(t, cities, cached)
}

func TestListWarmCacheServedImmediately(t *testing.T) {
	hits := make(chan struct{}, 2)
	server := newRegistry(t, hits)
	cache := &MemoryCache{}
	require.NoError(t, cache.Put([]string{"חיפה"}))
	svc := New(server.URL, cache, nil)

	cities, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"חיפה"}, cities, "stale list is served as-is")

	select {
	case <-hits:
	case <-time.After(5 * time.Second):
		t.Fatal("background refresh never reached the registry")
	}
	require.Eventually(t, func() bool {
		cached, _ := cache.Get()
		return len(cached) == 3
	}, 5*time.Second, 10*time.Millisecond, "background refresh replaces the cached list")
}

func TestListEndpointFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	svc := New(server.URL, &MemoryCache{}, nil)
	_, err := svc.List(context.Background())
	assert.Error(t, err, "cold cache plus dead registry has nothing to serve")
}

func TestFileCacheRoundTrip(t *testing.T) {
	cache := &FileCache{Path: t.TempDir() + "/cities.json"}

	_, ok := cache.Get()
	assert.False(t, ok, "missing file reads as a cold cache")

	require.NoError(t, cache.Put([]string{"אילת", "חיפה"}))
	cities, ok := cache.Get()
	require.True(t, ok)
	assert.Equal(t, []string{"אילת", "חיפה"}, cities)
}
