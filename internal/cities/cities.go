// Package cities serves the Hebrew city-name list used by the customer form.
// The list comes from the data.gov.il registry and is cached through a
// pluggable collaborator with read-through semantics: a warm cache is served
// immediately and refreshed in the background.
package cities

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultEndpoint is the public registry of Israeli settlements.
const DefaultEndpoint = "https://data.gov.il/api/3/action/datastore_search?resource_id=5c78e9fa-c2e2-4771-93ff-7f400a12f7ba&limit=32000"

// Cache is the external key-value collaborator holding the last good list.
type Cache interface {
	Get() ([]string, bool)
	Put(cities []string) error
}

// FileCache stores the list as a JSON file.
type FileCache struct {
	Path string
}

func (c *FileCache) Get() ([]string, bool) {
	raw, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, false
	}
	var cities []string
	if err := json.Unmarshal(raw, &cities); err != nil {
		return nil, false
	}
	return cities, true
}

func (c *FileCache) Put(cities []string) error {
	raw, err := json.Marshal(cities)
	if err != nil {
		return err
	}
	return os.WriteFile(c.Path, raw, 0o644)
}

// MemoryCache keeps the list in process memory. Used when no cache path is
// configured and by tests. Safe for the background refresh writer.
type MemoryCache struct {
	mu     sync.RWMutex
	cities []string
}

func (c *MemoryCache) Get() ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cities, c.cities != nil
}

func (c *MemoryCache) Put(cities []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cities = cities
	return nil
}

// Service fetches and caches the city list.
type Service struct {
	endpoint string
	client   *http.Client
	cache    Cache
	log      *slog.Logger
}

func New(endpoint string, cache Cache, logger *slog.Logger) *Service {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
		cache:    cache,
		log:      logger,
	}
}

// The registry has renamed the settlement-name column over the years; all
// known spellings are tried in order.
var nameKeys = []string{"שם_ישוב", "שם יישוב", "שם ישוב", "cityName", "name"}

func extractCityName(record map[string]any) string {
	for _, key := range nameKeys {
		if value, ok := record[key].(string); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// List returns the city names. A warm cache is served as-is while a refresh
// runs in the background; a cold cache forces a synchronous fetch.
func (s *Service) List(ctx context.Context) ([]string, error) {
	if cached, ok := s.cache.Get(); ok && len(cached) > 0 {
		go func() {
			if _, err := s.refresh(context.WithoutCancel(ctx)); err != nil {
				s.log.Warn("background cities refresh failed", "error", err)
			}
		}()
		return cached, nil
	}
	return s.refresh(ctx)
}

func (s *Service) refresh(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build cities request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch cities: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cities endpoint returned %s", resp.Status)
	}

	var payload struct {
		Result struct {
			Records []map[string]any `json:"records"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode cities payload: %w", err)
	}

	seen := make(map[string]bool)
	cities := make([]string, 0, len(payload.Result.Records))
	for _, record := range payload.Result.Records {
		name := extractCityName(record)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		cities = append(cities, name)
	}
	sort.Strings(cities)

	if len(cities) > 0 {
		if err := s.cache.Put(cities); err != nil {
			s.log.Warn("failed caching cities list", "error", err)
		}
	}
	return cities, nil
}
