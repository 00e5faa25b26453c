package repository

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExpandHolidays(t *testing.T) {
	rows := []models.Holiday{
		{Date: day(2026, 10, 12), Name: "Nossa Senhora Aparecida"},
		{Date: day(2025, 12, 25), Recurring: true, Name: "Natal"},
		{Date: day(2024, 2, 29), Recurring: true, Name: "bissexto"},
		{Date: day(2027, 1, 1), Name: "Confraternização Universal"},
	}

	cases := []struct {
		name     string
		from, to time.Time
		want     []string
		absent   []string
	}{
		{
			name:   "exact and recurring inside one year",
			from:   day(2026, 10, 1),
			to:     day(2026, 12, 31),
			want:   []string{"2026-10-12", "2026-12-25"},
			absent: []string{"2027-01-01", "2025-12-25"},
		},
		{
			name:   "range across new year",
			from:   day(2026, 12, 20),
			to:     day(2028, 3, 1),
			want:   []string{"2026-12-25", "2027-01-01", "2027-12-25", "2028-02-29"},
			absent: []string{"2027-02-28", "2027-03-01"},
		},
		{
			name:   "leap day skipped in common years",
			from:   day(2026, 2, 1),
			to:     day(2026, 3, 31),
			absent: []string{"2026-02-29", "2026-03-01"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			set := ExpandHolidays(rows, tc.from, tc.to)
			for _, d := range tc.want {
				if !set.Has(d) {
					t.Errorf("missing %s", d)
				}
			}
			for _, d := range tc.absent {
				if set.Has(d) {
					t.Errorf("unexpected %s", d)
				}
			}
		})
	}
}
