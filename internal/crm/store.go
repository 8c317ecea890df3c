package crm

import (
	"context"
	"io"
	"time"
)

// Document is one raw record from the document store, before normalization.
// Data holds whatever shape the backend returned; the normalizers in this
// package coerce it to the canonical entities.
type Document struct {
	ID   string
	Data map[string]any
}

// DocumentStore is the capability surface this package needs from the
// document database. Two implementations exist: FirestoreStore (live) and
// MemoryStore (in-memory fake), chosen once at composition time.
//
// Add* operations assign the document id and server-side createdAt/updatedAt
// timestamps; UpdateOrder re-stamps updatedAt.
type DocumentStore interface {
	GetCustomer(ctx context.Context, id string) (*Document, error)
	ListCustomers(ctx context.Context) ([]Document, error)
	AddCustomer(ctx context.Context, fields map[string]any) (string, error)

	// SubscribeCustomers streams full snapshots of the customer collection.
	// onData is invoked with every snapshot, onErr with permission or
	// connectivity failures. The returned func stops the stream.
	SubscribeCustomers(ctx context.Context, onData func([]Document), onErr func(error)) func()

	GetOrder(ctx context.Context, id string) (*Document, error)
	ListOrders(ctx context.Context) ([]Document, error)

	// QueryOrdersByOwner filters orders by owner. With byRecency the backend
	// also sorts by updatedAt descending, which may fail with
	// ErrMissingIndex; without it the caller sorts.
	QueryOrdersByOwner(ctx context.Context, userID string, byRecency bool) ([]Document, error)

	// FirstOrderByOwner is the cheap single-order lookup. ErrNotFound when
	// the customer has no orders.
	FirstOrderByOwner(ctx context.Context, userID string) (*Document, error)

	AddOrder(ctx context.Context, fields map[string]any) (string, error)
	UpdateOrder(ctx context.Context, id string, fields map[string]any) error

	GetStaff(ctx context.Context, uid string) (*Document, error)
}

// BlobEntry is one leaf file discovered in the object store.
type BlobEntry struct {
	Path string // full object path
	Name string // final path segment
}

// BlobMetadata is best-effort file metadata. Custom carries the key/value map
// set at upload time.
type BlobMetadata struct {
	Name    string
	Created time.Time
	Updated time.Time
	Custom  map[string]string
}

// BlobStore is the capability surface this package needs from the object
// store's hierarchical file tree. Implementations: GCSBlobStore (live) and
// MemoryBlobStore (in-memory fake).
type BlobStore interface {
	// List returns the immediate children of a path: leaf files and nested
	// sub-paths. ErrPathNotFound when the path does not exist (backends that
	// cannot distinguish absent from empty return empty results instead).
	List(ctx context.Context, path string) (files []BlobEntry, prefixes []string, err error)

	// PublicURL resolves a public access URL for a stored file.
	PublicURL(ctx context.Context, path string) (string, error)

	// Metadata fetches a file's metadata. ErrPathNotFound when absent.
	Metadata(ctx context.Context, path string) (*BlobMetadata, error)

	// Upload stores content with the given custom metadata and returns the
	// file's public URL.
	Upload(ctx context.Context, path, contentType string, content io.Reader, custom map[string]string) (string, error)

	// Delete removes a file. ErrPathNotFound when it was already gone.
	Delete(ctx context.Context, path string) error
}
