package crm

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is the in-memory DocumentStore. It backs local development and
// tests; behavior mirrors the Firestore implementation, including the
// missing-index condition, which is simulated when IndexedOrderQueries is
// false.
type MemoryStore struct {
	mu          sync.RWMutex
	customers   map[string]map[string]any
	customerIDs []string
	orders      map[string]map[string]any
	orderIDs    []string
	staff       map[string]map[string]any

	// IndexedOrderQueries controls whether the recency-ordered owner query
	// succeeds or reports ErrMissingIndex, as a Firestore project without
	// the composite index would.
	IndexedOrderQueries bool

	subs   map[int]func([]Document)
	nextID int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		customers:           make(map[string]map[string]any),
		orders:              make(map[string]map[string]any),
		staff:               make(map[string]map[string]any),
		IndexedOrderQueries: true,
		subs:                make(map[int]func([]Document)),
	}
}

func cloneFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// Seed helpers place records directly, without touching the lifecycle
// timestamps, so callers control updatedAt exactly.

func (m *MemoryStore) SeedCustomer(id string, fields map[string]any) {
	m.mu.Lock()
	if _, ok := m.customers[id]; !ok {
		m.customerIDs = append(m.customerIDs, id)
	}
	m.customers[id] = cloneFields(fields)
	m.mu.Unlock()
	m.notifySubscribers()
}

func (m *MemoryStore) SeedOrder(id string, fields map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		m.orderIDs = append(m.orderIDs, id)
	}
	m.orders[id] = cloneFields(fields)
}

func (m *MemoryStore) SeedStaff(uid string, fields map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staff[uid] = cloneFields(fields)
}

func (m *MemoryStore) getDoc(records map[string]map[string]any, id string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fields, ok := records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &Document{ID: id, Data: cloneFields(fields)}, nil
}

func (m *MemoryStore) snapshotCustomers() []Document {
	docs := make([]Document, 0, len(m.customerIDs))
	for _, id := range m.customerIDs {
		docs = append(docs, Document{ID: id, Data: cloneFields(m.customers[id])})
	}
	return docs
}

func (m *MemoryStore) GetCustomer(_ context.Context, id string) (*Document, error) {
	return m.getDoc(m.customers, id)
}

func (m *MemoryStore) ListCustomers(_ context.Context) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotCustomers(), nil
}

func (m *MemoryStore) AddCustomer(_ context.Context, fields map[string]any) (string, error) {
	id := NewID()
	now := time.Now().UTC()
	stamped := cloneFields(fields)
	stamped["createdAt"] = now
	stamped["updatedAt"] = now

	m.mu.Lock()
	m.customers[id] = stamped
	m.customerIDs = append(m.customerIDs, id)
	m.mu.Unlock()

	m.notifySubscribers()
	return id, nil
}

func (m *MemoryStore) SubscribeCustomers(_ context.Context, onData func([]Document), _ func(error)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = onData
	snapshot := m.snapshotCustomers()
	m.mu.Unlock()

	// Initial snapshot, like a Firestore listener's first delivery.
	onData(snapshot)
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *MemoryStore) notifySubscribers() {
	m.mu.RLock()
	snapshot := m.snapshotCustomers()
	subs := make([]func([]Document), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.RUnlock()
	for _, fn := range subs {
		fn(snapshot)
	}
}

func (m *MemoryStore) GetOrder(_ context.Context, id string) (*Document, error) {
	return m.getDoc(m.orders, id)
}

func (m *MemoryStore) ListOrders(_ context.Context) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	docs := make([]Document, 0, len(m.orderIDs))
	for _, id := range m.orderIDs {
		docs = append(docs, Document{ID: id, Data: cloneFields(m.orders[id])})
	}
	return docs, nil
}

func (m *MemoryStore) QueryOrdersByOwner(ctx context.Context, userID string, byRecency bool) ([]Document, error) {
	if byRecency && !m.IndexedOrderQueries {
		return nil, fmt.Errorf("%w: orders by userId+updatedAt", ErrMissingIndex)
	}
	docs, _ := m.ListOrders(ctx)
	matched := docs[:0]
	for _, doc := range docs {
		if owner, _ := doc.Data["userId"].(string); owner == userID {
			matched = append(matched, doc)
		}
	}
	if byRecency {
		sort.SliceStable(matched, func(i, j int) bool {
			return NormalizeDate(matched[i].Data["updatedAt"]) > NormalizeDate(matched[j].Data["updatedAt"])
		})
	}
	return matched, nil
}

func (m *MemoryStore) FirstOrderByOwner(ctx context.Context, userID string) (*Document, error) {
	docs, err := m.QueryOrdersByOwner(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	return &docs[0], nil
}

func (m *MemoryStore) AddOrder(_ context.Context, fields map[string]any) (string, error) {
	id := NewID()
	now := time.Now().UTC()
	stamped := cloneFields(fields)
	stamped["createdAt"] = now
	stamped["updatedAt"] = now

	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[id] = stamped
	m.orderIDs = append(m.orderIDs, id)
	return id, nil
}

func (m *MemoryStore) UpdateOrder(_ context.Context, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		existing[k] = v
	}
	existing["updatedAt"] = time.Now().UTC()
	return nil
}

func (m *MemoryStore) GetStaff(_ context.Context, uid string) (*Document, error) {
	return m.getDoc(m.staff, uid)
}

// memoryObject is one stored file in the MemoryBlobStore.
type memoryObject struct {
	data        []byte
	contentType string
	custom      map[string]string
	created     time.Time
	updated     time.Time
}

// MemoryBlobStore is the in-memory BlobStore. Unlike GCS it distinguishes an
// absent path from an empty one, so the aggregator's not-found swallowing
// stays observable. Listing and metadata failures can be forced per path for
// error-path coverage.
type MemoryBlobStore struct {
	mu           sync.RWMutex
	objects      map[string]*memoryObject
	listErrs     map[string]error
	metadataErrs map[string]error
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{
		objects:      make(map[string]*memoryObject),
		listErrs:     make(map[string]error),
		metadataErrs: make(map[string]error),
	}
}

// Put stores an object directly with explicit timestamps and metadata.
func (b *MemoryBlobStore) Put(objectPath string, created time.Time, custom map[string]string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[objectPath] = &memoryObject{
		custom:  custom,
		created: created,
		updated: created,
	}
}

// FailListing forces List to fail for any path at or under prefix.
func (b *MemoryBlobStore) FailListing(prefix string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listErrs[prefix] = err
}

// FailMetadata forces Metadata to fail for one object path.
func (b *MemoryBlobStore) FailMetadata(objectPath string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.metadataErrs[objectPath] = err
}

func (b *MemoryBlobStore) List(_ context.Context, p string) ([]BlobEntry, []string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	prefix := strings.TrimSuffix(p, "/")
	for registered, err := range b.listErrs {
		if prefix == registered || strings.HasPrefix(prefix, registered+"/") {
			return nil, nil, err
		}
	}

	var files []BlobEntry
	prefixSet := make(map[string]bool)
	found := false
	for objectPath := range b.objects {
		if !strings.HasPrefix(objectPath, prefix+"/") {
			continue
		}
		found = true
		rest := strings.TrimPrefix(objectPath, prefix+"/")
		if idx := strings.Index(rest, "/"); idx >= 0 {
			prefixSet[prefix+"/"+rest[:idx]] = true
			continue
		}
		files = append(files, BlobEntry{Path: objectPath, Name: rest})
	}
	if !found {
		return nil, nil, ErrPathNotFound
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	prefixes := make([]string, 0, len(prefixSet))
	for child := range prefixSet {
		prefixes = append(prefixes, child)
	}
	sort.Strings(prefixes)
	return files, prefixes, nil
}

func (b *MemoryBlobStore) PublicURL(_ context.Context, objectPath string) (string, error) {
	return "https://storage.example.com/" + objectPath, nil
}

func (b *MemoryBlobStore) Metadata(_ context.Context, objectPath string) (*BlobMetadata, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err, ok := b.metadataErrs[objectPath]; ok {
		return nil, err
	}
	obj, ok := b.objects[objectPath]
	if !ok {
		return nil, ErrPathNotFound
	}
	return &BlobMetadata{
		Name:    path.Base(objectPath),
		Created: obj.created,
		Updated: obj.updated,
		Custom:  obj.custom,
	}, nil
}

func (b *MemoryBlobStore) Upload(ctx context.Context, objectPath, contentType string, content io.Reader, custom map[string]string) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("read upload %s: %w", objectPath, err)
	}
	now := time.Now().UTC()
	b.mu.Lock()
	b.objects[objectPath] = &memoryObject{
		data:        data,
		contentType: contentType,
		custom:      custom,
		created:     now,
		updated:     now,
	}
	b.mu.Unlock()
	return b.PublicURL(ctx, objectPath)
}

func (b *MemoryBlobStore) Delete(_ context.Context, objectPath string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.objects[objectPath]; !ok {
		return ErrPathNotFound
	}
	delete(b.objects, objectPath)
	return nil
}
