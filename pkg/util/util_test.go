package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoveDuplicateStrings(t *testing.T) {
	assert.Equal(t, []string{"b", "c"}, RemoveDuplicateStrings([]string{"a", "b", "", "b", "c"}, []string{"a"}))
}

func TestEqualFoldNonEmpty(t *testing.T) {
	assert.True(t, EqualFoldNonEmpty(" SBB", "sbb "))
	assert.False(t, EqualFoldNonEmpty("", ""))
	assert.False(t, EqualFoldNonEmpty("BLS", "SBB"))
}

func TestNormaliseSpace(t *testing.T) {
	assert.Equal(t, "Bern, Bahnhof", NormaliseSpace("  Bern,   Bahnhof "))
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(map[string]int{"c": 1, "a": 2, "b": 3}))
}

func TestInPlaceFilter(t *testing.T) {
	values := []int{1, 2, 3, 4}
	InPlaceFilter(&values, func(v int) bool { return v%2 == 0 })

	assert.Equal(t, []int{2, 4}, values)
}

func TestGetPrefixedEnvironmentVariables(t *testing.T) {
	t.Setenv("STOPMATCHTEST_RADIUS", "42")

	assert.Equal(t, "42", GetPrefixedEnvironmentVariables("STOPMATCHTEST_")["RADIUS"])
}
