package crm

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore is the live DocumentStore backed by Cloud Firestore.
type FirestoreStore struct {
	client    *firestore.Client
	customers string
	orders    string
	staff     string
}

// NewFirestoreStore wires the store to its collections.
func NewFirestoreStore(client *firestore.Client, customersCollection, ordersCollection, staffCollection string) *FirestoreStore {
	return &FirestoreStore{
		client:    client,
		customers: customersCollection,
		orders:    ordersCollection,
		staff:     staffCollection,
	}
}

func (s *FirestoreStore) getDoc(ctx context.Context, collection, id string) (*Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return &Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *FirestoreStore) listDocs(ctx context.Context, q firestore.Query) ([]Document, error) {
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

// withServerTimestamps copies the fields and adds server-assigned lifecycle
// timestamps.
func withServerTimestamps(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		out[k] = v
	}
	out["createdAt"] = firestore.ServerTimestamp
	out["updatedAt"] = firestore.ServerTimestamp
	return out
}

func (s *FirestoreStore) GetCustomer(ctx context.Context, id string) (*Document, error) {
	return s.getDoc(ctx, s.customers, id)
}

func (s *FirestoreStore) ListCustomers(ctx context.Context) ([]Document, error) {
	docs, err := s.listDocs(ctx, s.client.Collection(s.customers).Query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.customers, err)
	}
	return docs, nil
}

func (s *FirestoreStore) AddCustomer(ctx context.Context, fields map[string]any) (string, error) {
	ref, _, err := s.client.Collection(s.customers).Add(ctx, withServerTimestamps(fields))
	if err != nil {
		return "", fmt.Errorf("add customer: %w", err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) SubscribeCustomers(ctx context.Context, onData func([]Document), onErr func(error)) func() {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		snaps := s.client.Collection(s.customers).Snapshots(ctx)
		defer snaps.Stop()
		for {
			snap, err := snaps.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled || errors.Is(err, context.Canceled) {
					return
				}
				if onErr != nil {
					onErr(fmt.Errorf("customers snapshot stream: %w", err))
				}
				return
			}
			docSnaps, err := snap.Documents.GetAll()
			if err != nil {
				if onErr != nil {
					onErr(fmt.Errorf("read customers snapshot: %w", err))
				}
				return
			}
			docs := make([]Document, 0, len(docSnaps))
			for _, d := range docSnaps {
				docs = append(docs, Document{ID: d.Ref.ID, Data: d.Data()})
			}
			onData(docs)
		}
	}()
	return cancel
}

func (s *FirestoreStore) GetOrder(ctx context.Context, id string) (*Document, error) {
	return s.getDoc(ctx, s.orders, id)
}

func (s *FirestoreStore) ListOrders(ctx context.Context) ([]Document, error) {
	docs, err := s.listDocs(ctx, s.client.Collection(s.orders).Query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.orders, err)
	}
	return docs, nil
}

func (s *FirestoreStore) QueryOrdersByOwner(ctx context.Context, userID string, byRecency bool) ([]Document, error) {
	q := s.client.Collection(s.orders).Where("userId", "==", userID)
	if byRecency {
		q = q.OrderBy("updatedAt", firestore.Desc)
	}
	docs, err := s.listDocs(ctx, q)
	if err != nil {
		// Firestore reports an absent composite index as FailedPrecondition.
		if status.Code(err) == codes.FailedPrecondition {
			return nil, fmt.Errorf("%w: %v", ErrMissingIndex, err)
		}
		return nil, fmt.Errorf("query orders for %s: %w", userID, err)
	}
	return docs, nil
}

func (s *FirestoreStore) FirstOrderByOwner(ctx context.Context, userID string) (*Document, error) {
	q := s.client.Collection(s.orders).Where("userId", "==", userID).Limit(1)
	docs, err := s.listDocs(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("first order for %s: %w", userID, err)
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	return &docs[0], nil
}

func (s *FirestoreStore) AddOrder(ctx context.Context, fields map[string]any) (string, error) {
	ref, _, err := s.client.Collection(s.orders).Add(ctx, withServerTimestamps(fields))
	if err != nil {
		return "", fmt.Errorf("add order: %w", err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) UpdateOrder(ctx context.Context, id string, fields map[string]any) error {
	updates := make([]firestore.Update, 0, len(fields)+1)
	for k, v := range fields {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: firestore.ServerTimestamp})
	if _, err := s.client.Collection(s.orders).Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("update order %s: %w", id, err)
	}
	return nil
}

func (s *FirestoreStore) GetStaff(ctx context.Context, uid string) (*Document, error) {
	return s.getDoc(ctx, s.staff, uid)
}
