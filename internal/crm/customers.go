package crm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/guybracha/karinaCrm2/internal/models"
)

// mapCustomer flattens a raw profile document and the customer's primary
// order into the canonical view. A nil primary order yields empty graphics
// and the default pipeline.
func mapCustomer(doc *Document, primary *models.Order) models.Customer {
	data := doc.Data
	customer := models.Customer{
		ID:          doc.ID,
		FirebaseUID: stringField(data, "firebaseUid", doc.ID),
		Name:        stringField(data, "name", stringField(data, "displayName", unnamedCustomer)),
		Company:     stringField(data, "company", ""),
		Phone:       stringField(data, "phone", stringField(data, "phoneNumber", "")),
		Email:       stringField(data, "email", ""),
		City:        stringField(data, "city", ""),
		Notes:       stringField(data, "notes", ""),
	}
	if primary != nil {
		customer.Graphics = primary.Graphics
		customer.ProductionSteps = primary.ProductionSteps
	} else {
		customer.Graphics = []models.Graphic{}
		customer.ProductionSteps = DefaultSteps()
	}
	return customer
}

func sortCustomers(customers []models.Customer) {
	sort.SliceStable(customers, func(i, j int) bool {
		a := strings.ToLower(strings.TrimSpace(customers[i].Name))
		b := strings.ToLower(strings.TrimSpace(customers[j].Name))
		if a == b {
			return customers[i].ID < customers[j].ID
		}
		return a < b
	})
}

// firstOrderByOwner keys raw order documents by owner, first occurrence wins.
// Good enough for the listing view; the detail view resolves properly.
func firstOrderByOwner(docs []Document) map[string]models.Order {
	byOwner := make(map[string]models.Order)
	for i := range docs {
		order := mapOrder(&docs[i])
		if order.UserID == "" {
			continue
		}
		if _, ok := byOwner[order.UserID]; ok {
			continue
		}
		byOwner[order.UserID] = order
	}
	return byOwner
}

func joinCustomers(profiles []Document, ordersByOwner map[string]models.Order) []models.Customer {
	customers := make([]models.Customer, 0, len(profiles))
	for i := range profiles {
		var primary *models.Order
		if order, ok := ordersByOwner[profiles[i].ID]; ok {
			primary = &order
		}
		customers = append(customers, mapCustomer(&profiles[i], primary))
	}
	return customers
}

// FetchCustomers lists every customer joined with one order each, sorted by
// name. The profile and order fetches run concurrently.
func (s *Service) FetchCustomers(ctx context.Context) ([]models.Customer, error) {
	var profiles, orderDocs []Document
	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		profiles, err = s.docs.ListCustomers(gctx)
		return err
	})
	eg.Go(func() error {
		var err error
		orderDocs, err = s.docs.ListOrders(gctx)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	customers := joinCustomers(profiles, firstOrderByOwner(orderDocs))
	sortCustomers(customers)
	return customers, nil
}

// SubscribeCustomers re-joins and re-sorts the customer list on every
// snapshot of the customer collection. Errors from the stream or from the
// per-snapshot order fetch arrive on onErr. The returned func stops the
// subscription.
func (s *Service) SubscribeCustomers(ctx context.Context, onData func([]models.Customer), onErr func(error)) func() {
	return s.docs.SubscribeCustomers(ctx, func(profiles []Document) {
		orderDocs, err := s.docs.ListOrders(ctx)
		if err != nil {
			if onErr != nil {
				onErr(fmt.Errorf("orders fetch during snapshot: %w", err))
			}
			return
		}
		customers := joinCustomers(profiles, firstOrderByOwner(orderDocs))
		sortCustomers(customers)
		if onData != nil {
			onData(customers)
		}
	}, onErr)
}

// AssembleCustomer builds the full customer view: profile, resolved order
// list, flattened graphics/steps from the newest order, and the
// storage-derived graphics override. Returns nil (no error) when the profile
// does not exist. A storage outage degrades the view instead of failing it.
func (s *Service) AssembleCustomer(ctx context.Context, id string) (*models.Customer, error) {
	doc, err := s.docs.GetCustomer(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load customer %s: %w", id, err)
	}

	uid := stringField(doc.Data, "firebaseUid", doc.ID)
	var alternates []string
	if uid != doc.ID {
		alternates = append(alternates, uid)
	}
	orders, err := s.ResolveOrders(ctx, doc.ID, alternates...)
	if err != nil {
		return nil, err
	}

	var primary *models.Order
	if len(orders) > 0 {
		primary = &orders[0]
	} else {
		primary, err = s.ResolveSingleOrder(ctx, doc.ID)
		if err != nil {
			return nil, err
		}
	}

	customer := mapCustomer(doc, primary)
	customer.Orders = orders

	// Storage is more authoritative than the order's denormalized copy, but
	// an object-store outage must never block the read.
	stored, err := s.ListStorageGraphics(ctx, uid)
	if err != nil {
		s.log.Warn("storage graphics unavailable, serving order copy", "customerId", doc.ID, "error", err)
	} else if len(stored) > 0 {
		customer.Graphics = stored
	}
	return &customer, nil
}

// CreateCustomer writes a trimmed profile plus its initial order and returns
// the assembled result.
func (s *Service) CreateCustomer(ctx context.Context, input models.NewCustomerRequest) (*models.Customer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = unnamedCustomer
	}
	id, err := s.docs.AddCustomer(ctx, map[string]any{
		"name":    name,
		"company": strings.TrimSpace(input.Company),
		"phone":   strings.TrimSpace(input.Phone),
		"email":   strings.TrimSpace(input.Email),
		"city":    strings.TrimSpace(input.City),
		"notes":   strings.TrimSpace(input.Notes),
	})
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	if _, err := s.docs.AddOrder(ctx, map[string]any{
		"userId":          id,
		"graphics":        []any{},
		"productionSteps": stepsToRaw(DefaultSteps()),
	}); err != nil {
		return nil, fmt.Errorf("create initial order for %s: %w", id, err)
	}

	s.log.Info("created customer", "customerId", id)
	return s.AssembleCustomer(ctx, id)
}
