package core

import (
	"strings"
	"time"
)

// Date represents a calendar day in UTC, independent of clock time.
type Date time.Time

// NewDate creates a Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf truncates a timestamp to its UTC calendar day.
func DateOf(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

// Time returns the underlying time.Time at UTC midnight.
func (d Date) Time() time.Time {
	return time.Time(d)
}

// Next returns the following calendar day.
func (d Date) Next() Date {
	return Date(time.Time(d).AddDate(0, 0, 1))
}

// DaysUntil returns the number of whole days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(time.Time(other).Sub(time.Time(d)).Hours() / 24)
}

// Before returns true if d is earlier than other.
func (d Date) Before(other Date) bool {
	return time.Time(d).Before(time.Time(other))
}

// Equal returns true if both values name the same calendar day.
func (d Date) Equal(other Date) bool {
	return time.Time(d).Equal(time.Time(other))
}

// IsZero checks if the date is unset.
func (d Date) IsZero() bool {
	return time.Time(d).IsZero()
}

// Month returns the calendar month (1-12).
func (d Date) Month() time.Month {
	return time.Time(d).Month()
}

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday {
	return time.Time(d).Weekday()
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return time.Time(d).Format("2006-01-02")
}

// MarshalJSON renders the date as a quoted YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON parses a quoted YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*d = Date{}
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	*d = Date(t)
	return nil
}
