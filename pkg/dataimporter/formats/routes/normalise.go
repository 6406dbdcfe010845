package routes

import (
	"regexp"
	"strconv"
	"strings"
)

// Swiss GTFS route ids embed the timetable year ("91-10-A-j24-1"); the segment is
// replaced so ids survive the yearly renumbering
var yearSegmentRegex = regexp.MustCompile(`(?i)\bj\d{2}\b`)

const yearPlaceholder = "jXX"

func NormaliseRouteID(routeID string) string {
	return yearSegmentRegex.ReplaceAllString(strings.TrimSpace(routeID), yearPlaceholder)
}

// CoerceDirection turns the direction representations found in the inputs into "0" or "1".
// The second return value is false when the direction is unknown.
func CoerceDirection(direction string) (string, bool) {
	direction = strings.TrimSpace(strings.ToLower(direction))

	switch direction {
	case "false":
		return "0", true
	case "true":
		return "1", true
	}

	value, err := strconv.ParseFloat(direction, 64)
	if err != nil {
		return "", false
	}

	switch value {
	case 0:
		return "0", true
	case 1:
		return "1", true
	}

	return "", false
}
