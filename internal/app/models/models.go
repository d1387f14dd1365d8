package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date wire format used for deadlines
const DateLayout = "2006-01-02"

// Date is a calendar date stored without a time component
type Date struct {
	time.Time
}

// NewDate truncates t to midnight UTC
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts "2006-01-02" or a full RFC3339 timestamp
func ParseDate(value string) (Date, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(DateLayout, value); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q", value)
	}
	return NewDate(t), nil
}

// String formats the date as YYYY-MM-DD
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// catalogDeadlineLayouts covers the formats used in the university catalog, e.g. "Jan 15, 2026"
var catalogDeadlineLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	DateLayout,
}

// ParseCatalogDeadline parses a human-written catalog deadline such as
// "Jan 26, 2026 (Scholarship)". The trailing parenthetical is ignored.
func ParseCatalogDeadline(value string) (*Date, bool) {
	if i := strings.Index(value, "("); i >= 0 {
		value = value[:i]
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, false
	}
	for _, layout := range catalogDeadlineLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			d := NewDate(t)
			return &d, true
		}
	}
	return nil, false
}
