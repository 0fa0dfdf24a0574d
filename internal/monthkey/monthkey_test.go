package monthkey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(202401))
	assert.NoError(t, Validate(Min))
	assert.NoError(t, Validate(Max))

	assert.Error(t, Validate(202400), "month 0")
	assert.Error(t, Validate(202413), "month 13")
	assert.Error(t, Validate(199912), "below range")
	assert.Error(t, Validate(210001), "above range")
	assert.Error(t, Validate(0))
}

func TestParse(t *testing.T) {
	key, err := Parse("202403")
	require.NoError(t, err)
	assert.Equal(t, 202403, key)

	for _, bad := range []string{"", "2024", "2024-03", "20a403", "abcdef", "2024030"} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestPrevCrossesYear(t *testing.T) {
	assert.Equal(t, 202312, Prev(202401))
	assert.Equal(t, 202402, Prev(202403))
}

func TestBoundsHalfOpen(t *testing.T) {
	start, end := Bounds(202402)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), end)

	// December rolls into January of the next year.
	start, end = Bounds(202412)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestFromTimeAndLabel(t *testing.T) {
	key := FromTime(time.Date(2024, 7, 15, 12, 30, 0, 0, time.UTC))
	assert.Equal(t, 202407, key)
	assert.Equal(t, "2024-07", Label(key))
}
