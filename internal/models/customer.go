package models

import "strings"

// Production step statuses. Any other stored value is read back as "todo".
const (
	StepStatusTodo       = "todo"
	StepStatusInProgress = "in-progress"
	StepStatusDone       = "done"
)

// ProductionStep is one entry in an order's fixed production checklist.
type ProductionStep struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updatedAt"`
}

// Graphic is one uploaded customer file. Path is set only for entries that
// came from the object store; entries without a Path cannot be deleted there,
// only removed from the order's list.
type Graphic struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	FileURL    string `json:"fileUrl"`
	UploadedAt string `json:"uploadedAt"`
	Path       string `json:"path,omitempty"`
}

// Order groups a customer's graphics and production checklist. A customer may
// have several orders; the most recently updated one is the active one unless
// a caller pins a specific order id.
type Order struct {
	ID              string           `json:"id"`
	UserID          string           `json:"userId"`
	Status          string           `json:"status"`
	CreatedAt       string           `json:"createdAt"`
	UpdatedAt       string           `json:"updatedAt"`
	Graphics        []Graphic        `json:"graphics"`
	ProductionSteps []ProductionStep `json:"productionSteps"`
}

// Customer is the flattened view served to the UI: profile fields plus the
// graphics and production steps of the most relevant order. Orders carries the
// full per-order detail for callers that need it.
type Customer struct {
	ID              string           `json:"id"`
	FirebaseUID     string           `json:"firebaseUid"`
	Name            string           `json:"name"`
	Company         string           `json:"company"`
	Phone           string           `json:"phone"`
	Email           string           `json:"email"`
	City            string           `json:"city"`
	Notes           string           `json:"notes"`
	Graphics        []Graphic        `json:"graphics"`
	ProductionSteps []ProductionStep `json:"productionSteps"`
	Orders          []Order          `json:"orders,omitempty"`
}

// StaffProfile is a record from the staff collection gating access to the CRM.
type StaffProfile struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Active bool   `json:"active"`
	Status string `json:"status,omitempty"`
}

// IsActive reports whether the record grants access. Older records carry a
// status string instead of the active flag.
func (p *StaffProfile) IsActive() bool {
	if p.Active {
		return true
	}
	return strings.EqualFold(p.Status, "active")
}
