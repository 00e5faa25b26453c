package appointment

import (
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// Window is a half-open instant range.
type Window struct {
	Start time.Time
	End   time.Time
}

// Padded grows [start, end) by the buffer on both sides.
func Padded(start, end time.Time, bufferMin int) Window {
	buffer := time.Duration(bufferMin) * time.Minute
	return Window{Start: start.Add(-buffer), End: end.Add(buffer)}
}

func (w Window) Intersects(start, end time.Time) bool {
	return start.Before(w.End) && end.After(w.Start)
}

// ConflictWith reports the first appointment that makes the window
// unusable, as a Conflict error carrying its id and times.
func ConflictWith(existing []models.Appointment) error {
	if len(existing) == 0 {
		return nil
	}
	hit := existing[0]
	return httperr.ConflictErr("time_conflict", map[string]any{
		"appointment_id": hit.ID,
		"start_at":       hit.StartAt,
		"end_at":         hit.EndAt,
	})
}
