package crm

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guybracha/karinaCrm2/internal/models"
)

func seedCustomer(docs *MemoryStore, id, name, firebaseUID string) {
	fields := map[string]any{"name": name}
	if firebaseUID != "" {
		fields["firebaseUid"] = firebaseUID
	}
	docs.SeedCustomer(id, fields)
}

func TestAssembleCustomerAbsentProfile(t *testing.T) {
	svc, _, _ := newTestService(t)
	customer, err := svc.AssembleCustomer(context.Background(), "missing")
	require.NoError(t, err, "an absent profile is a nil result, not an error")
	assert.Nil(t, customer)
}

func TestAssembleCustomerUsesNewestOrder(t *testing.T) {
	svc, docs, _ := newTestService(t)
	seedCustomer(docs, "c1", "דנה כהן", "")
	docs.SeedOrder("old", map[string]any{
		"userId":    "c1",
		"updatedAt": "2024-01-01T00:00:00Z",
		"graphics": []any{
			map[string]any{"id": "g-old", "label": "ישן", "fileUrl": "https://example.com/old.png", "uploadedAt": "2024-01-01T00:00:00Z"},
		},
		"productionSteps": []any{
			map[string]any{"id": "s1", "title": "קבלת הזמנה", "status": "done", "updatedAt": "2024-01-01T00:00:00Z"},
		},
	})
	docs.SeedOrder("new", map[string]any{
		"userId":    "c1",
		"updatedAt": "2024-02-01T00:00:00Z",
		"graphics": []any{
			map[string]any{"id": "g-new", "label": "חדש", "fileUrl": "https://example.com/new.png", "uploadedAt": "2024-02-01T00:00:00Z"},
		},
		"productionSteps": []any{
			map[string]any{"id": "s1", "title": "קבלת הזמנה", "status": "in-progress", "updatedAt": "2024-02-01T00:00:00Z"},
		},
	})

	customer, err := svc.AssembleCustomer(context.Background(), "c1")
	require.NoError(t, err)
	require.NotNil(t, customer)

	require.Len(t, customer.Graphics, 1)
	assert.Equal(t, "g-new", customer.Graphics[0].ID, "flattened view comes from the newest order")
	assert.Equal(t, "in-progress", customer.ProductionSteps[0].Status)

	require.Len(t, customer.Orders, 2, "both orders stay available")
	assert.Equal(t, "new", customer.Orders[0].ID)
	assert.Equal(t, "old", customer.Orders[1].ID)
}

func TestAssembleCustomerStorageOverridesEmbeddedGraphics(t *testing.T) {
	svc, docs, blobs := newTestService(t)
	seedCustomer(docs, "c1", "דנה כהן", "uid-1")
	docs.SeedOrder("o1", map[string]any{
		"userId":    "c1",
		"updatedAt": "2024-01-01T00:00:00Z",
		"graphics": []any{
			map[string]any{"id": "embedded", "label": "עותק ישן", "fileUrl": "https://example.com/e.png", "uploadedAt": "2024-01-01T00:00:00Z"},
		},
		"productionSteps": []any{},
	})
	created := time.Now().UTC()
	blobs.Put("users_prod/uid-1/logos/a.png", created, nil)
	blobs.Put("users_prod/uid-1/logos/b.png", created, nil)
	blobs.Put("logos/uid-1/c.png", created, nil)

	customer, err := svc.AssembleCustomer(context.Background(), "c1")
	require.NoError(t, err)
	require.NotNil(t, customer)

	require.Len(t, customer.Graphics, 3, "storage-derived list overrides the embedded copy")
	for _, g := range customer.Graphics {
		assert.NotEmpty(t, g.Path, "storage entries carry their path")
	}
	require.Len(t, customer.Orders, 1)
	require.Len(t, customer.Orders[0].Graphics, 1)
	assert.Equal(t, "embedded", customer.Orders[0].Graphics[0].ID, "the stored copy on the order is untouched")
}

func TestAssembleCustomerStorageOutageDegrades(t *testing.T) {
	svc, docs, blobs := newTestService(t)
	seedCustomer(docs, "c1", "דנה כהן", "uid-1")
	docs.SeedOrder("o1", map[string]any{
		"userId":    "c1",
		"updatedAt": "2024-01-01T00:00:00Z",
		"graphics": []any{
			map[string]any{"id": "embedded", "label": "עותק", "fileUrl": "https://example.com/e.png", "uploadedAt": "2024-01-01T00:00:00Z"},
		},
		"productionSteps": []any{},
	})
	blobs.FailListing("users_prod/uid-1", fmt.Errorf("%w: storage outage", ErrPermission))

	customer, err := svc.AssembleCustomer(context.Background(), "c1")
	require.NoError(t, err, "an object-storage outage degrades the view instead of failing it")
	require.NotNil(t, customer)
	require.Len(t, customer.Graphics, 1)
	assert.Equal(t, "embedded", customer.Graphics[0].ID)
}

func TestAssembleCustomerNoOrders(t *testing.T) {
	svc, docs, _ := newTestService(t)
	seedCustomer(docs, "c1", "", "")

	customer, err := svc.AssembleCustomer(context.Background(), "c1")
	require.NoError(t, err)
	require.NotNil(t, customer)
	assert.Equal(t, "לקוח ללא שם", customer.Name, "name is never empty in canonical form")
	assert.Empty(t, customer.Graphics)
	assert.Len(t, customer.ProductionSteps, 5, "default pipeline stands in")
	assert.Empty(t, customer.Orders)
}

func TestSaveProductionStepsRoundTrip(t *testing.T) {
	svc, docs, _ := newTestService(t)
	ctx := context.Background()
	seedCustomer(docs, "c1", "דנה כהן", "")
	seedOrder(docs, "o1", "c1", "2024-01-01T00:00:00Z")

	steps := []models.ProductionStep{
		{ID: "s1", Title: "קבלת הזמנה", Status: "done", UpdatedAt: "2024-05-01T00:00:00Z"},
		{ID: "s2", Title: "עיצוב גרפי", Status: "in-progress", UpdatedAt: "2024-05-02T00:00:00Z"},
		{ID: "s3", Title: "ייצור", Status: "todo", UpdatedAt: "2024-05-03T00:00:00Z"},
	}
	saved, err := svc.SaveProductionSteps(ctx, "c1", steps, "o1")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, steps, saved.ProductionSteps, "persisted verbatim, no re-normalization change")

	assembled, err := svc.AssembleCustomer(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, steps, assembled.ProductionSteps)
}

func TestSaveGraphicsLazilyCreatesOrder(t *testing.T) {
	svc, docs, _ := newTestService(t)
	ctx := context.Background()
	seedCustomer(docs, "c1", "דנה כהן", "")

	graphics := []models.Graphic{
		{ID: "g1", Label: "לוגו", FileURL: "https://example.com/a.png", UploadedAt: "2024-05-01T00:00:00Z"},
	}
	saved, err := svc.SaveGraphics(ctx, "c1", graphics, "")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, graphics, saved.Graphics)

	all, _ := docs.ListOrders(ctx)
	assert.Len(t, all, 1, "an order was created to carry the list")
}

func TestSaveGraphicsOwnershipMismatchPerformsNoWrite(t *testing.T) {
	svc, docs, _ := newTestService(t)
	seedCustomer(docs, "c1", "דנה כהן", "")
	seedOrder(docs, "foreign", "c2", "2024-01-01T00:00:00Z")

	_, err := svc.SaveGraphics(context.Background(), "c1", []models.Graphic{{ID: "g1"}}, "foreign")
	assert.ErrorIs(t, err, ErrOrderOwnershipMismatch)

	doc, _ := docs.GetOrder(context.Background(), "foreign")
	assert.Len(t, doc.Data["graphics"], 0, "foreign order untouched")
}

func TestFetchCustomersSortedByName(t *testing.T) {
	svc, docs, _ := newTestService(t)
	seedCustomer(docs, "c2", "  ברק לוי ", "")
	seedCustomer(docs, "c1", "אורית שדה", "")
	seedOrder(docs, "o1", "c1", "2024-01-01T00:00:00Z")

	customers, err := svc.FetchCustomers(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "c1", customers[0].ID, "sorted by trimmed, lowercased name")
	assert.Equal(t, "c2", customers[1].ID)
	assert.NotEmpty(t, customers[0].ProductionSteps)
}

func TestSubscribeCustomers(t *testing.T) {
	svc, docs, _ := newTestService(t)
	ctx := context.Background()
	seedCustomer(docs, "c1", "אורית שדה", "")

	var snapshots [][]models.Customer
	stop := svc.SubscribeCustomers(ctx, func(customers []models.Customer) {
		snapshots = append(snapshots, customers)
	}, nil)

	require.Len(t, snapshots, 1, "initial snapshot delivered")
	require.Len(t, snapshots[0], 1)

	_, err := docs.AddCustomer(ctx, map[string]any{"name": "ברק לוי"})
	require.NoError(t, err)
	require.Len(t, snapshots, 2, "collection change triggers a fresh snapshot")
	assert.Len(t, snapshots[1], 2)

	stop()
	_, err = docs.AddCustomer(ctx, map[string]any{"name": "גיא"})
	require.NoError(t, err)
	assert.Len(t, snapshots, 2, "no deliveries after stop")
}

func TestCreateCustomer(t *testing.T) {
	svc, docs, _ := newTestService(t)
	ctx := context.Background()

	customer, err := svc.CreateCustomer(ctx, models.NewCustomerRequest{
		Name:  "  דנה כהן  ",
		City:  "תל אביב",
		Phone: " 050-0000000 ",
	})
	require.NoError(t, err)
	require.NotNil(t, customer)
	assert.Equal(t, "דנה כהן", customer.Name)
	assert.Equal(t, "050-0000000", customer.Phone)
	require.Len(t, customer.Orders, 1, "initial order created alongside the profile")
	assert.Len(t, customer.ProductionSteps, 5)
	assert.Empty(t, customer.Graphics)

	blank, err := svc.CreateCustomer(ctx, models.NewCustomerRequest{})
	require.NoError(t, err)
	assert.Equal(t, "לקוח ללא שם", blank.Name, "blank name gets the placeholder")

	all, _ := docs.ListOrders(ctx)
	assert.Len(t, all, 2)
}
