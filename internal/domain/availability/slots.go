package availability

import (
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/domain/holiday"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/timezone"
)

// MaxRangeDays bounds a single slot query.
const MaxRangeDays = 62

type Slot struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Available bool      `json:"available"`
}

// Busy is an existing booking of the professional.
type Busy struct {
	Start time.Time
	End   time.Time
}

// GenerateSlots lists the candidate slots of av between the calendar
// dates from and to (inclusive), in time order. Each busy interval is
// padded by the buffer on both sides; candidates that intersect a padded
// interval are reported unavailable. Slots starting at or before now are
// dropped.
func GenerateSlots(
	av *models.Availability,
	from, to time.Time,
	busy []Busy,
	holidays holiday.DateSet,
	now time.Time,
) []Slot {
	loc := timezone.Location(av.Timezone)
	duration := time.Duration(av.DurationMin) * time.Minute
	buffer := time.Duration(av.BufferMin) * time.Minute
	step := duration + buffer
	if duration <= 0 {
		return []Slot{}
	}

	padded := make([]Busy, len(busy))
	for i, b := range busy {
		padded[i] = Busy{Start: b.Start.Add(-buffer), End: b.End.Add(buffer)}
	}

	slots := []Slot{}
	for _, day := range timezone.EachDay(from, to, loc) {
		if holidays.HasDay(day, loc) {
			continue
		}

		for _, w := range WindowsFor(av, day, loc) {
			windowEnd := timezone.At(day, w.End, loc)
			for cur := timezone.At(day, w.Start, loc); !cur.Add(duration).After(windowEnd); cur = cur.Add(step) {
				if !cur.After(now) {
					continue
				}
				end := cur.Add(duration)
				slots = append(slots, Slot{
					StartTime: cur,
					EndTime:   end,
					Available: !intersectsAny(cur, end, padded),
				})
			}
		}
	}
	return slots
}

func intersectsAny(start, end time.Time, busy []Busy) bool {
	for _, b := range busy {
		if start.Before(b.End) && b.Start.Before(end) {
			return true
		}
	}
	return false
}
