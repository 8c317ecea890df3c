package crm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guybracha/karinaCrm2/internal/models"
)

type timestampWrapper struct {
	t time.Time
}

func (w timestampWrapper) AsTime() time.Time { return w.t }

func TestNormalizeDateNeverFails(t *testing.T) {
	cases := []struct {
		name  string
		input any
	}{
		{"nil", nil},
		{"empty string", ""},
		{"number", 42},
		{"map", map[string]any{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeDate(tc.input)
			_, err := time.Parse(time.RFC3339, got)
			assert.NoError(t, err, "result must be a parseable RFC 3339 string")
		})
	}
}

func TestNormalizeDateRepresentations(t *testing.T) {
	assert.Equal(t, "2024-05-01T10:00:00Z", NormalizeDate("2024-05-01T10:00:00Z"), "strings pass through")

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-05-01T10:00:00Z", NormalizeDate(at))
	assert.Equal(t, "2024-05-01T10:00:00Z", NormalizeDate(timestampWrapper{t: at}))
}

func TestNormalizeStepsDefaultPipeline(t *testing.T) {
	for _, input := range []any{nil, "junk", []any{}, map[string]any{}} {
		steps := NormalizeSteps(input)
		require.Len(t, steps, 5)

		wantIDs := []string{"step1", "step2", "step3", "step4", "step5"}
		wantStatuses := []string{
			models.StepStatusDone,
			models.StepStatusTodo,
			models.StepStatusTodo,
			models.StepStatusTodo,
			models.StepStatusTodo,
		}
		for i, step := range steps {
			assert.Equal(t, wantIDs[i], step.ID)
			assert.Equal(t, wantStatuses[i], step.Status)
			assert.NotEmpty(t, step.Title)
			_, err := time.Parse(time.RFC3339, step.UpdatedAt)
			assert.NoError(t, err)
		}
	}
}

func TestNormalizeStepsPreservesLengthAndOrder(t *testing.T) {
	steps := NormalizeSteps([]any{
		map[string]any{"id": "a", "title": "גרפיקה", "status": "weird-status"},
		map[string]any{"id": "b", "status": "in-progress"},
		map[string]any{"id": "c", "title": "משלוח", "status": "done"},
	})
	require.Len(t, steps, 3, "never padded or truncated")

	assert.Equal(t, "a", steps[0].ID)
	assert.Equal(t, models.StepStatusTodo, steps[0].Status, "unknown status coerces to todo")
	assert.Equal(t, models.StepStatusInProgress, steps[1].Status)
	assert.Equal(t, "שלב ללא שם", steps[1].Title, "missing title falls back to placeholder")
	assert.Equal(t, models.StepStatusDone, steps[2].Status)
}

func TestNormalizeGraphicsNonList(t *testing.T) {
	assert.Empty(t, NormalizeGraphics(nil))
	assert.Empty(t, NormalizeGraphics("junk"))
	assert.Empty(t, NormalizeGraphics(map[string]any{}))
}

func TestNormalizeGraphicsFieldDefaults(t *testing.T) {
	graphics := NormalizeGraphics([]any{
		map[string]any{"id": "g1", "label": "לוגו", "fileUrl": "https://example.com/a.png", "uploadedAt": "2024-01-01T00:00:00Z"},
		map[string]any{"fileUrl": "https://example.com/b.png"},
	})
	require.Len(t, graphics, 2)

	assert.Equal(t, "g1", graphics[0].ID)
	assert.Equal(t, "לוגו", graphics[0].Label)
	assert.Equal(t, "2024-01-01T00:00:00Z", graphics[0].UploadedAt)

	assert.NotEmpty(t, graphics[1].ID, "missing id gets a generated one")
	assert.Equal(t, "קובץ ללא שם", graphics[1].Label)
	_, err := time.Parse(time.RFC3339, graphics[1].UploadedAt)
	assert.NoError(t, err)
}
