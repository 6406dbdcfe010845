package util

import (
	"strings"
)

func RemoveDuplicateStrings(values []string, ignoreList []string) []string {
	presentStrings := make(map[string]bool)
	var list []string

	for _, ignoreString := range ignoreList {
		presentStrings[ignoreString] = true
	}

	for _, item := range values {
		if _, value := presentStrings[item]; !value && item != "" {
			presentStrings[item] = true
			list = append(list, item)
		}
	}
	return list
}

// NormaliseSpace trims the value and collapses inner runs of whitespace to a single space
func NormaliseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// EqualFoldNonEmpty reports whether both values are set and equal ignoring case and surrounding space
func EqualFoldNonEmpty(a string, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)

	if a == "" || b == "" {
		return false
	}

	return strings.EqualFold(a, b)
}
