package models

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDate accepts the two shapes dates are stored in: a calendar date
// ("2024-12-31") or a full RFC3339 timestamp.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// StringPtr is a small helper for the optional string fields.
func StringPtr(s string) *string {
	return &s
}
