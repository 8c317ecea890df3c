package crm

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/guybracha/karinaCrm2/internal/models"
)

// mapOrder converts a raw order document to its canonical form.
func mapOrder(doc *Document) models.Order {
	data := doc.Data
	return models.Order{
		ID:              doc.ID,
		UserID:          stringField(data, "userId", ""),
		Status:          stringField(data, "status", "draft"),
		CreatedAt:       NormalizeDate(data["createdAt"]),
		UpdatedAt:       NormalizeDate(data["updatedAt"]),
		Graphics:        NormalizeGraphics(data["graphics"]),
		ProductionSteps: NormalizeSteps(data["productionSteps"]),
	}
}

func mapOrders(docs []Document) []models.Order {
	orders := make([]models.Order, 0, len(docs))
	for i := range docs {
		orders = append(orders, mapOrder(&docs[i]))
	}
	return orders
}

// RFC 3339 UTC strings compare lexically in chronological order.
func sortOrdersByRecency(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].UpdatedAt > orders[j].UpdatedAt
	})
}

// queryOrdersForUser runs the indexed owner+recency query and falls back to a
// filter-only query with a client-side sort when the index is missing. Same
// result shape and order either way.
func (s *Service) queryOrdersForUser(ctx context.Context, userID string) ([]models.Order, error) {
	if userID == "" {
		return nil, nil
	}
	docs, err := s.docs.QueryOrdersByOwner(ctx, userID, true)
	if errors.Is(err, ErrMissingIndex) {
		s.log.Warn("orders index missing, sorting client-side", "userId", userID)
		docs, err = s.docs.QueryOrdersByOwner(ctx, userID, false)
		if err != nil {
			return nil, fmt.Errorf("fallback orders query for %s: %w", userID, err)
		}
		orders := mapOrders(docs)
		sortOrdersByRecency(orders)
		return orders, nil
	}
	if err != nil {
		return nil, fmt.Errorf("orders query for %s: %w", userID, err)
	}
	return mapOrders(docs), nil
}

// ResolveOrders retrieves every order owned by any of the customer's
// identifiers, merged by order id (first occurrence wins) and sorted most
// recently updated first.
func (s *Service) ResolveOrders(ctx context.Context, customerID string, alternateIDs ...string) ([]models.Order, error) {
	ids := make([]string, 0, 1+len(alternateIDs))
	seen := make(map[string]bool)
	for _, id := range append([]string{customerID}, alternateIDs...) {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	merged := make([]models.Order, 0)
	byID := make(map[string]bool)
	for _, id := range ids {
		orders, err := s.queryOrdersForUser(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, order := range orders {
			if byID[order.ID] {
				continue
			}
			byID[order.ID] = true
			merged = append(merged, order)
		}
	}
	sortOrdersByRecency(merged)
	return merged, nil
}

// ResolveSingleOrder is the cheap path used when one order is expected.
// Returns nil when the customer has none.
func (s *Service) ResolveSingleOrder(ctx context.Context, customerID string) (*models.Order, error) {
	doc, err := s.docs.FirstOrderByOwner(ctx, customerID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("single order lookup for %s: %w", customerID, err)
	}
	order := mapOrder(doc)
	return &order, nil
}

// OrderHandle points a mutation at a concrete order document.
type OrderHandle struct {
	ID    string
	Order models.Order
}

// EnsureOrder resolves the order a mutation should target. An explicit
// orderID must exist and belong to the customer; without one, an existing
// order is reused or a fresh one is created with empty graphics and the
// default pipeline, so every mutation has a concrete order to write to.
func (s *Service) EnsureOrder(ctx context.Context, customerID, orderID string) (*OrderHandle, error) {
	if orderID != "" {
		doc, err := s.docs.GetOrder(ctx, orderID)
		if errors.Is(err, ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("load order %s: %w", orderID, err)
		}
		order := mapOrder(doc)
		if order.UserID != customerID {
			return nil, ErrOrderOwnershipMismatch
		}
		return &OrderHandle{ID: doc.ID, Order: order}, nil
	}

	existing, err := s.ResolveSingleOrder(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &OrderHandle{ID: existing.ID, Order: *existing}, nil
	}

	steps := DefaultSteps()
	id, err := s.docs.AddOrder(ctx, map[string]any{
		"userId":          customerID,
		"graphics":        []any{},
		"productionSteps": stepsToRaw(steps),
	})
	if err != nil {
		return nil, fmt.Errorf("create order for %s: %w", customerID, err)
	}
	s.log.Info("created order for customer", "customerId", customerID, "orderId", id)
	return &OrderHandle{
		ID: id,
		Order: models.Order{
			ID:              id,
			UserID:          customerID,
			Status:          "draft",
			Graphics:        []models.Graphic{},
			ProductionSteps: steps,
		},
	}, nil
}
