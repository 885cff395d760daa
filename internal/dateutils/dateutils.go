// Package dateutils parses the timestamps printed in operator notifications.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"fjacquet/miamala/internal/models"
)

var whitespace = regexp.MustCompile(`\s+`)

// ParseMessageTime parses a DD/MM/YYYY HH:MM timestamp. Unlike the datetime
// extractor it rejects impossible dates such as 31/02/2024.
func ParseMessageTime(s string) (time.Time, error) {
	cleaned := CleanDateString(s)
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty datetime")
	}
	t, err := time.Parse(models.DatetimeLayout, cleaned)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse datetime %q: %w", s, err)
	}
	return t, nil
}

// CleanDateString trims the string and collapses runs of whitespace, so a
// tab between date and time still parses.
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// CompareTimes returns -1, 0 or 1 as a is before, equal to or after b.
func CompareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}
