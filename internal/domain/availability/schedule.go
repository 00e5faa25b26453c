package availability

import (
	"fmt"
	"sort"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/timezone"
)

const (
	MinDurationMin = 5
	MaxDurationMin = 480
	MaxBufferMin   = 60
)

// Window is a half-open time-of-day range in minutes after midnight.
type Window struct {
	Start int
	End   int
}

func (w Window) Overlaps(o Window) bool {
	return w.Start < o.End && o.Start < w.End
}

func (w Window) String() string {
	return timezone.FormatHM(w.Start) + "-" + timezone.FormatHM(w.End)
}

// Normalize validates an availability submitted for writing and sorts
// its slots in place. The returned error is always a business error.
func Normalize(av *models.Availability) error {
	if av.DurationMin < MinDurationMin || av.DurationMin > MaxDurationMin {
		return httperr.InvalidInputErr("invalid_duration", map[string]any{
			"min": MinDurationMin, "max": MaxDurationMin, "value": av.DurationMin,
		})
	}
	if av.BufferMin < 0 || av.BufferMin > MaxBufferMin {
		return httperr.InvalidInputErr("invalid_buffer", map[string]any{
			"min": 0, "max": MaxBufferMin, "value": av.BufferMin,
		})
	}
	if av.Price != nil && *av.Price < 0 {
		return httperr.InvalidInputErr("invalid_price", nil)
	}
	if av.Timezone == "" {
		av.Timezone = timezone.DefaultTimezone
	}
	if !timezone.IsValid(av.Timezone) {
		return httperr.InvalidInputErr("invalid_timezone", map[string]any{"timezone": av.Timezone})
	}

	seenDays := make(map[int]bool, len(av.Weekly))
	for i := range av.Weekly {
		day := &av.Weekly[i]
		if day.Weekday < 1 || day.Weekday > 7 {
			return httperr.InvalidInputErr("invalid_weekday", map[string]any{"weekday": day.Weekday})
		}
		if seenDays[day.Weekday] {
			return httperr.InvalidInputErr("duplicate_weekday", map[string]any{"weekday": day.Weekday})
		}
		seenDays[day.Weekday] = true

		if err := normalizeSlots(day.Slots, map[string]any{"weekday": day.Weekday}); err != nil {
			return err
		}
	}
	sort.Slice(av.Weekly, func(i, j int) bool { return av.Weekly[i].Weekday < av.Weekly[j].Weekday })

	seenDates := make(map[string]bool, len(av.Exceptions))
	for i := range av.Exceptions {
		ex := &av.Exceptions[i]
		if _, err := timezone.ParseDate(ex.Date, time.UTC); err != nil {
			return httperr.InvalidInputErr("invalid_exception_date", map[string]any{"date": ex.Date})
		}
		if seenDates[ex.Date] {
			return httperr.InvalidInputErr("duplicate_exception_date", map[string]any{"date": ex.Date})
		}
		seenDates[ex.Date] = true

		if !ex.IsAvailable {
			ex.Slots = nil
			continue
		}
		if err := normalizeSlots(ex.Slots, map[string]any{"date": ex.Date}); err != nil {
			return err
		}
	}
	sort.Slice(av.Exceptions, func(i, j int) bool { return av.Exceptions[i].Date < av.Exceptions[j].Date })

	return nil
}

// normalizeSlots sorts by start time and rejects malformed or
// self-overlapping ranges within a single day.
func normalizeSlots(slots []models.TimeSlot, where map[string]any) error {
	windows := make([]Window, len(slots))
	for i, s := range slots {
		w, err := parseSlot(s)
		if err != nil {
			return httperr.InvalidInputErr("invalid_slot", merge(where, map[string]any{
				"slot": s, "reason": err.Error(),
			}))
		}
		windows[i] = w
	}

	sort.Sort(byStart{slots: slots, windows: windows})

	for i := 1; i < len(windows); i++ {
		if windows[i-1].End > windows[i].Start {
			return httperr.InvalidInputErr("overlapping_slots", merge(where, map[string]any{
				"first":  slots[i-1],
				"second": slots[i],
			}))
		}
	}
	return nil
}

type byStart struct {
	slots   []models.TimeSlot
	windows []Window
}

func (b byStart) Len() int           { return len(b.slots) }
func (b byStart) Less(i, j int) bool { return b.windows[i].Start < b.windows[j].Start }
func (b byStart) Swap(i, j int) {
	b.slots[i], b.slots[j] = b.slots[j], b.slots[i]
	b.windows[i], b.windows[j] = b.windows[j], b.windows[i]
}

func parseSlot(s models.TimeSlot) (Window, error) {
	start, err := timezone.ParseHM(s.StartTime)
	if err != nil {
		return Window{}, err
	}
	end, err := timezone.ParseHM(s.EndTime)
	if err != nil {
		return Window{}, err
	}
	if end <= start {
		return Window{}, fmt.Errorf("end %s must be after start %s", s.EndTime, s.StartTime)
	}
	return Window{Start: start, End: end}, nil
}

func toWindows(slots []models.TimeSlot) []Window {
	out := make([]Window, 0, len(slots))
	for _, s := range slots {
		if w, err := parseSlot(s); err == nil {
			out = append(out, w)
		}
	}
	return out
}

func merge(a, b map[string]any) map[string]any {
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// CheckCrossService rejects any weekly or exception window of candidate
// that overlaps a window of another service of the same professional.
// Comparison is by time of day only.
func CheckCrossService(candidate *models.Availability, others []models.Availability) error {
	for _, other := range others {
		if other.ServiceID == candidate.ServiceID || other.ProfessionalID != candidate.ProfessionalID {
			continue
		}

		for _, day := range candidate.Weekly {
			for _, otherDay := range other.Weekly {
				if otherDay.Weekday != day.Weekday {
					continue
				}
				if a, b, ok := firstOverlap(day.Slots, otherDay.Slots); ok {
					return scheduleOverlap(other.ServiceID, map[string]any{"weekday": day.Weekday}, a, b)
				}
			}
		}

		for _, ex := range candidate.Exceptions {
			if !ex.IsAvailable {
				continue
			}
			for _, otherEx := range other.Exceptions {
				if otherEx.Date != ex.Date || !otherEx.IsAvailable {
					continue
				}
				if a, b, ok := firstOverlap(ex.Slots, otherEx.Slots); ok {
					return scheduleOverlap(other.ServiceID, map[string]any{"date": ex.Date}, a, b)
				}
			}
		}
	}
	return nil
}

func firstOverlap(a, b []models.TimeSlot) (Window, Window, bool) {
	for _, wa := range toWindows(a) {
		for _, wb := range toWindows(b) {
			if wa.Overlaps(wb) {
				return wa, wb, true
			}
		}
	}
	return Window{}, Window{}, false
}

func scheduleOverlap(serviceID uint, where map[string]any, slot, existing Window) error {
	return httperr.ConflictErr("schedule_overlap", merge(where, map[string]any{
		"service_id":    serviceID,
		"slot":          slot.String(),
		"existing_slot": existing.String(),
	}))
}

// WindowsFor resolves the working windows of one calendar day. A
// date exception wins over the weekly entry; an unavailable exception
// or an available one without slots closes the day.
func WindowsFor(av *models.Availability, day time.Time, loc *time.Location) []Window {
	date := timezone.DateKey(day, loc)
	for _, ex := range av.Exceptions {
		if ex.Date != date {
			continue
		}
		if !ex.IsAvailable {
			return nil
		}
		return toWindows(ex.Slots)
	}

	weekday := timezone.ISOWeekday(day.In(loc))
	for _, wd := range av.Weekly {
		if wd.Weekday == weekday {
			return toWindows(wd.Slots)
		}
	}
	return nil
}

// FitsWorkingSlot reports whether [start, end) lies inside a single
// working window of start's calendar day in the availability's zone.
func FitsWorkingSlot(av *models.Availability, start, end time.Time) bool {
	loc := timezone.Location(av.Timezone)
	if !end.After(start) {
		return false
	}
	if timezone.DateKey(start, loc) != timezone.DateKey(end.Add(-time.Nanosecond), loc) {
		return false
	}

	for _, w := range WindowsFor(av, start, loc) {
		ws := timezone.At(start, w.Start, loc)
		we := timezone.At(start, w.End, loc)
		if !start.Before(ws) && !end.After(we) {
			return true
		}
	}
	return false
}
