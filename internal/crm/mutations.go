package crm

import (
	"context"
	"fmt"

	"github.com/guybracha/karinaCrm2/internal/models"
)

// SaveGraphics replaces the target order's graphics list and returns the
// freshly assembled customer. The list is persisted verbatim; normalization
// happens on the next read. Write failures surface to the caller untouched.
func (s *Service) SaveGraphics(ctx context.Context, customerID string, graphics []models.Graphic, orderID string) (*models.Customer, error) {
	handle, err := s.EnsureOrder(ctx, customerID, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.docs.UpdateOrder(ctx, handle.ID, map[string]any{
		"graphics": graphicsToRaw(graphics),
	}); err != nil {
		return nil, fmt.Errorf("save graphics for order %s: %w", handle.ID, err)
	}
	return s.AssembleCustomer(ctx, customerID)
}

// SaveProductionSteps replaces the target order's production checklist and
// returns the freshly assembled customer.
func (s *Service) SaveProductionSteps(ctx context.Context, customerID string, steps []models.ProductionStep, orderID string) (*models.Customer, error) {
	handle, err := s.EnsureOrder(ctx, customerID, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.docs.UpdateOrder(ctx, handle.ID, map[string]any{
		"productionSteps": stepsToRaw(steps),
	}); err != nil {
		return nil, fmt.Errorf("save production steps for order %s: %w", handle.ID, err)
	}
	return s.AssembleCustomer(ctx, customerID)
}
