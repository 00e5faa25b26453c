package holiday

import (
	"context"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/timezone"
)

// DateSet holds calendar dates formatted as YYYY-MM-DD.
type DateSet map[string]struct{}

func NewDateSet(dates ...string) DateSet {
	s := make(DateSet, len(dates))
	for _, d := range dates {
		s[d] = struct{}{}
	}
	return s
}

func (s DateSet) Add(date string) {
	s[date] = struct{}{}
}

func (s DateSet) Has(date string) bool {
	_, ok := s[date]
	return ok
}

// HasDay reports whether day's calendar date in loc is blocked.
func (s DateSet) HasDay(day time.Time, loc *time.Location) bool {
	return s.Has(timezone.DateKey(day, loc))
}

type Lookup interface {
	IsHoliday(ctx context.Context, date time.Time) (bool, error)
	HolidaysInRange(ctx context.Context, from, to time.Time) (DateSet, error)
}
