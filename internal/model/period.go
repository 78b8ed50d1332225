package model

import (
	"fmt"
	"time"
)

// Period is a calendar month cursor.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod parses a "YYYY-MM" string.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("invalid month %q (want YYYY-MM): %w", s, err)
	}
	return PeriodOf(t), nil
}

// Next moves one calendar month forward.
func (p Period) Next() Period {
	return p.add(1)
}

// Prev moves one calendar month back.
func (p Period) Prev() Period {
	return p.add(-1)
}

func (p Period) add(months int) Period {
	t := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	return PeriodOf(t)
}

// Contains reports whether t falls in the same calendar month and year.
// The comparison uses t's own location.
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && t.Month() == p.Month
}

// String returns the period as "YYYY-MM".
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}
