package collection

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap(t *testing.T) {
	got := Map([]string{"a", "b"}, strings.ToUpper)
	assert.Equal(t, []string{"A", "B"}, got)
}

func TestFilterNeverReturnsNil(t *testing.T) {
	got := Filter([]int{1, 2, 3, 4}, func(n int) bool { return n%2 == 0 })
	assert.Equal(t, []int{2, 4}, got)

	empty := Filter([]int{1, 3}, func(n int) bool { return n%2 == 0 })
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestFirst(t *testing.T) {
	v, ok := First([]int{5, 6, 7}, func(n int) bool { return n > 5 })
	assert.True(t, ok)
	assert.Equal(t, 6, v)

	v, ok = First([]int{5}, func(n int) bool { return n > 5 })
	assert.False(t, ok)
	assert.Zero(t, v)
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]string{"x", "y"}, func(s string) bool { return s == "y" }))
	assert.False(t, Contains([]string{"x"}, func(s string) bool { return s == "y" }))
}

func TestUniqueKeepsFirstOccurrence(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Unique([]string{"a", "b", "a", "c", "b"}))
	assert.Empty(t, Unique([]string(nil)))
}

func TestSum(t *testing.T) {
	type line struct{ price, count int64 }
	lines := []line{{40000, 2}, {15000, 1}}
	total := Sum(lines, func(l line) int64 { return l.price * l.count })
	assert.Equal(t, int64(95000), total)
}
