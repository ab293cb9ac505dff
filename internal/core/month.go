package core

import (
	"fmt"
	"time"
)

// monthLayout is the textual form used at every boundary (API, storage).
const monthLayout = "2006-01"

// Month is a calendar year+month value with no day or time component. It is
// the unique key of a Budget and the owning period of every transaction
// record. The zero value is not a valid month.
type Month struct {
	year  int
	month time.Month
}

// NewMonth builds a Month from a year and month number.
func NewMonth(year int, month time.Month) (Month, error) {
	if year < 1 || month < time.January || month > time.December {
		return Month{}, fmt.Errorf("%w: %04d-%02d", ErrInvalidMonth, year, int(month))
	}
	return Month{year: year, month: month}, nil
}

// ParseMonth parses the "YYYY-MM" textual form.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return Month{year: t.Year(), month: t.Month()}, nil
}

// Year returns the calendar year.
func (m Month) Year() int { return m.year }

// Month returns the calendar month.
func (m Month) Month() time.Month { return m.month }

// IsZero reports whether m is the zero value.
func (m Month) IsZero() bool { return m.year == 0 && m.month == 0 }

// String renders the "YYYY-MM" form.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.year, int(m.month))
}
