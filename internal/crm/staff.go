package crm

import (
	"context"
	"errors"
	"fmt"

	"github.com/guybracha/karinaCrm2/internal/models"
)

// FetchStaffProfile loads the staff record for a signed-in principal.
// Returns nil when no record exists.
func (s *Service) FetchStaffProfile(ctx context.Context, uid string) (*models.StaffProfile, error) {
	if uid == "" {
		return nil, errors.New("no signed-in user id available")
	}
	doc, err := s.docs.GetStaff(ctx, uid)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load staff profile %s: %w", uid, err)
	}
	return &models.StaffProfile{
		ID:     doc.ID,
		Name:   stringField(doc.Data, "name", ""),
		Active: boolField(doc.Data, "active"),
		Status: stringField(doc.Data, "status", ""),
	}, nil
}

// AssertStaffAccess rejects principals without an active staff record. The
// backend's own security rules are the real enforcement; this gate only
// keeps inactive accounts out of the UI.
func (s *Service) AssertStaffAccess(ctx context.Context, uid string) (*models.StaffProfile, error) {
	profile, err := s.FetchStaffProfile(ctx, uid)
	if err != nil {
		return nil, err
	}
	if profile == nil || !profile.IsActive() {
		return nil, ErrStaffAccessDenied
	}
	return profile, nil
}
