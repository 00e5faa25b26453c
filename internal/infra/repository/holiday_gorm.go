package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-scheduler/internal/domain/holiday"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/timezone"
)

type HolidayGormRepository struct {
	db *gorm.DB
}

func NewHolidayGormRepository(db *gorm.DB) *HolidayGormRepository {
	return &HolidayGormRepository{db: db}
}

func (r *HolidayGormRepository) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	set, err := r.HolidaysInRange(ctx, date, date)
	if err != nil {
		return false, err
	}
	return set.Has(date.Format(timezone.DateLayout)), nil
}

// HolidaysInRange returns the blocked dates in [from, to], both taken as
// calendar dates in their own location.
func (r *HolidayGormRepository) HolidaysInRange(ctx context.Context, from, to time.Time) (holiday.DateSet, error) {
	fromKey := from.Format(timezone.DateLayout)
	toKey := to.Format(timezone.DateLayout)

	var rows []models.Holiday
	if err := r.db.WithContext(ctx).
		Where("(recurring = false AND date BETWEEN ? AND ?) OR recurring = true", fromKey, toKey).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("holidays %s..%s: %w", fromKey, toKey, err)
	}

	return ExpandHolidays(rows, from, to), nil
}

// ExpandHolidays projects exact and recurring holidays onto the years
// touched by [from, to].
func ExpandHolidays(rows []models.Holiday, from, to time.Time) holiday.DateSet {
	fromKey := from.Format(timezone.DateLayout)
	toKey := to.Format(timezone.DateLayout)

	set := holiday.NewDateSet()
	for _, h := range rows {
		if !h.Recurring {
			key := h.Date.Format(timezone.DateLayout)
			if key >= fromKey && key <= toKey {
				set.Add(key)
			}
			continue
		}

		for year := from.Year(); year <= to.Year(); year++ {
			d := time.Date(year, h.Date.Month(), h.Date.Day(), 0, 0, 0, 0, time.UTC)
			// 29/02 não existe em anos não bissextos
			if d.Month() != h.Date.Month() {
				continue
			}
			key := d.Format(timezone.DateLayout)
			if key >= fromKey && key <= toKey {
				set.Add(key)
			}
		}
	}
	return set
}

// Compile-time check
var _ holiday.Lookup = (*HolidayGormRepository)(nil)
