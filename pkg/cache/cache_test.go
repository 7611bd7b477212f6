package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSetRoundTrip(t *testing.T) {
	SetDriver(NewMemoryDriver())

	type school struct {
		Name string `json:"name"`
		City string `json:"city"`
	}
	require.NoError(t, Set("school:1", school{Name: "دبیرستان نمونه", City: "تهران"}, time.Minute))

	var got school
	require.True(t, Get("school:1", &got))
	assert.Equal(t, "تهران", got.City)

	var miss school
	assert.False(t, Get("school:2", &miss))
}

func TestDelRemovesKeys(t *testing.T) {
	SetDriver(NewMemoryDriver())

	require.NoError(t, Set("a", 1, 0))
	require.NoError(t, Set("b", 2, 0))
	require.NoError(t, Del("a", "b"))

	var n int
	assert.False(t, Get("a", &n))
	assert.False(t, Get("b", &n))
}

func TestExpiredEntryMisses(t *testing.T) {
	d := NewMemoryDriver()
	require.NoError(t, d.Set("k", []byte(`1`), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, ok := d.Get("k")
	assert.False(t, ok)
}

func TestZeroTTLNeverExpires(t *testing.T) {
	d := NewMemoryDriver()
	require.NoError(t, d.Set("k", []byte(`1`), 0))

	_, ok := d.Get("k")
	assert.True(t, ok)
}

func TestGetWithMismatchedShapeIsAMiss(t *testing.T) {
	SetDriver(NewMemoryDriver())
	require.NoError(t, Set("k", "just a string", time.Minute))

	var dest struct{ N int }
	assert.False(t, Get("k", &dest), "decode failure must read as a miss")
}
