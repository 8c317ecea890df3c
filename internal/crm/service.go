package crm

import (
	"log/slog"

	"github.com/google/uuid"
)

// Service is the customer/order reconciliation layer. It merges customer
// profiles with their most relevant order and the storage-derived graphics
// list, and owns all mutations of both.
type Service struct {
	docs  DocumentStore
	blobs BlobStore
	log   *slog.Logger
}

// NewService wires the service to its storage backends. The backends are
// picked by the composition root; business logic never branches on which
// implementation it got.
func NewService(docs DocumentStore, blobs BlobStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{docs: docs, blobs: blobs, log: logger}
}

// NewID produces an opaque unique identifier for locally created records.
func NewID() string {
	return uuid.NewString()
}
