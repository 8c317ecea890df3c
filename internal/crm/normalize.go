package crm

import (
	"time"

	"github.com/guybracha/karinaCrm2/internal/models"
)

// Placeholder labels for records whose source omitted them.
const (
	unnamedCustomer = "לקוח ללא שם"
	unnamedGraphic  = "קובץ ללא שם"
	unnamedStep     = "שלב ללא שם"
)

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// NormalizeDate coerces any stored date representation to an RFC 3339 string.
// It accepts a string, a native time, or a backend timestamp wrapper exposing
// AsTime, and falls back to the current time. It never fails.
func NormalizeDate(value any) string {
	switch v := value.(type) {
	case string:
		if v == "" {
			return nowISO()
		}
		return v
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case interface{ AsTime() time.Time }:
		return v.AsTime().UTC().Format(time.RFC3339)
	default:
		return nowISO()
	}
}

// DefaultSteps returns the canonical five-step production pipeline created
// alongside every new order. The first step is pre-marked done.
func DefaultSteps() []models.ProductionStep {
	ts := nowISO()
	return []models.ProductionStep{
		{ID: "step1", Title: "קבלת הזמנה", Status: models.StepStatusDone, UpdatedAt: ts},
		{ID: "step2", Title: "עיצוב גרפי", Status: models.StepStatusTodo, UpdatedAt: ts},
		{ID: "step3", Title: "אישור לקוח", Status: models.StepStatusTodo, UpdatedAt: ts},
		{ID: "step4", Title: "ייצור", Status: models.StepStatusTodo, UpdatedAt: ts},
		{ID: "step5", Title: "נשלח ללקוח", Status: models.StepStatusTodo, UpdatedAt: ts},
	}
}

// NormalizeGraphics coerces a raw graphics list element-by-element, preserving
// order. Non-list input yields an empty list.
func NormalizeGraphics(raw any) []models.Graphic {
	items, ok := raw.([]any)
	if !ok {
		return []models.Graphic{}
	}
	out := make([]models.Graphic, 0, len(items))
	for _, item := range items {
		fields, _ := item.(map[string]any)
		out = append(out, models.Graphic{
			ID:         stringField(fields, "id", NewID()),
			Label:      stringField(fields, "label", unnamedGraphic),
			FileURL:    stringField(fields, "fileUrl", ""),
			UploadedAt: NormalizeDate(fields["uploadedAt"]),
			Path:       stringField(fields, "path", ""),
		})
	}
	return out
}

// NormalizeSteps coerces a raw production-steps list. A missing, malformed or
// empty list yields the default pipeline; a non-empty list is mapped
// element-wise with size and order preserved, never padded or truncated.
func NormalizeSteps(raw any) []models.ProductionStep {
	items, ok := raw.([]any)
	if !ok || len(items) == 0 {
		return DefaultSteps()
	}
	out := make([]models.ProductionStep, 0, len(items))
	for _, item := range items {
		fields, _ := item.(map[string]any)
		out = append(out, models.ProductionStep{
			ID:        stringField(fields, "id", NewID()),
			Title:     stringField(fields, "title", unnamedStep),
			Status:    coerceStatus(stringField(fields, "status", "")),
			UpdatedAt: NormalizeDate(fields["updatedAt"]),
		})
	}
	return out
}

func coerceStatus(status string) string {
	if status == models.StepStatusDone || status == models.StepStatusInProgress {
		return status
	}
	return models.StepStatusTodo
}

// stringField reads a string value from a raw record, falling back when the
// key is absent, not a string, or empty.
func stringField(fields map[string]any, key, fallback string) string {
	if fields == nil {
		return fallback
	}
	if v, ok := fields[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func boolField(fields map[string]any, key string) bool {
	if fields == nil {
		return false
	}
	v, _ := fields[key].(bool)
	return v
}
