package tracker

import (
	"strings"
	"time"

	"liyu1981.xyz/medical-device-tracker/pkg/models"
)

// matchesSearch reports whether any of fields contains term, ignoring case.
// An empty term matches everything.
func matchesSearch(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// matchesCategory treats "" and "All" as no filter.
func matchesCategory[T ~string](want string, got T) bool {
	if want == "" || want == models.FilterAll {
		return true
	}
	return string(got) == want
}

// withinRange applies only when both bounds parse. A date-only upper bound
// covers the whole of that day.
func withinRange(value string, from string, to string) bool {
	if from == "" || to == "" {
		return true
	}
	start, err := models.ParseDate(from)
	if err != nil {
		return true
	}
	end, err := models.ParseDate(to)
	if err != nil {
		return true
	}
	if _, err := time.Parse(models.DateLayout, to); err == nil {
		end = end.Add(24*time.Hour - time.Nanosecond)
	}
	t, err := models.ParseDate(value)
	if err != nil {
		return false
	}
	return !t.Before(start) && !t.After(end)
}
