package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// DateLayout is the only accepted deadline format.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component, stored as YYYY-MM-DD text.
type Date struct {
	time.Time
}

// NewDate returns the date for year, month and day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in its own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses s as YYYY-MM-DD. An empty or malformed string yields nil
// rather than an error.
func ParseDate(s string) *Date {
	if s == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil
	}
	return &Date{t}
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// Before reports whether d is an earlier day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan implements sql.Scanner. SQLite may hand back text or, for columns it
// recognizes as dates, a time.Time.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

func (d *Date) parse(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid stored date %q: %w", s, err)
	}
	d.Time = t
	return nil
}
