package crm

import "github.com/guybracha/karinaCrm2/internal/models"

// The document stores persist raw field maps; these helpers turn the
// canonical entities back into that shape. Lists are written verbatim, so a
// round trip through the store changes nothing.

func graphicsToRaw(graphics []models.Graphic) []any {
	out := make([]any, 0, len(graphics))
	for _, g := range graphics {
		fields := map[string]any{
			"id":         g.ID,
			"label":      g.Label,
			"fileUrl":    g.FileURL,
			"uploadedAt": g.UploadedAt,
		}
		if g.Path != "" {
			fields["path"] = g.Path
		}
		out = append(out, fields)
	}
	return out
}

func stepsToRaw(steps []models.ProductionStep) []any {
	out := make([]any, 0, len(steps))
	for _, s := range steps {
		out = append(out, map[string]any{
			"id":        s.ID,
			"title":     s.Title,
			"status":    s.Status,
			"updatedAt": s.UpdatedAt,
		})
	}
	return out
}
