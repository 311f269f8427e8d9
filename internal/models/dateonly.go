package models

import (
	"fmt"
	"strings"
	"time"
)

const dateOnlyLayout = "2006-01-02"

// DateOnly is a calendar date transmitted as YYYY-MM-DD. The remote API
// occasionally returns full timestamps for date fields, so unmarshalling
// accepts RFC3339 as well and truncates it.
type DateOnly struct {
	time.Time
}

// NewDateOnly truncates a time to its calendar date.
func NewDateOnly(t time.Time) DateOnly {
	return DateOnly{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date.
func Today() DateOnly {
	return NewDateOnly(time.Now().UTC())
}

// String renders the wire format.
func (d DateOnly) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateOnlyLayout)
}

// MarshalJSON renders YYYY-MM-DD, or null for the zero date.
func (d DateOnly) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateOnlyLayout) + `"`), nil
}

// UnmarshalJSON accepts YYYY-MM-DD, RFC3339 timestamps, null and "".
func (d *DateOnly) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(dateOnlyLayout, raw); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", raw, err)
	}
	*d = NewDateOnly(t)
	return nil
}
