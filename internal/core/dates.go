package core

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate is returned for malformed or missing date fields. Callers
// must propagate it instead of defaulting to today or dropping the record.
var ErrInvalidDate = errors.New("invalid date")

// DateLayout is the wire format the document store persisted dates in.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component, anchored at UTC midnight.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf normalizes an instant to its calendar date. The wall-clock
// components of t are taken as-is, so the caller decides the reference
// (local or UTC) once and everything downstream stays consistent.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses an ISO date string. A failure yields ErrInvalidDate,
// never a silently-zero Date.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String returns the date in the wire format.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON renders the date-only form.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON accepts the date-only form.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("%w: %s", ErrInvalidDate, s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// AddDays returns the date n calendar days later. The arithmetic works on
// year/month/day components, so month lengths and DST transitions cannot
// shift the result.
func (d Date) AddDays(n int) Date {
	y, m, day := d.Date()
	return Date{Time: time.Date(y, m, day+n, 0, 0, 0, 0, time.UTC)}
}

// DaysRemaining returns the number of whole days from reference to target,
// computed between the two midnight instants: ceil((target - reference) / 24h).
// A negative result means the target is in the past.
func DaysRemaining(target, reference Date) int {
	delta := target.Sub(reference.Time)
	days := int(delta / (24 * time.Hour))
	if delta%(24*time.Hour) > 0 {
		days++
	}
	return days
}
