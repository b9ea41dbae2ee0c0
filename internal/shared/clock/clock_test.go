package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cristianortiz/vinylAuction/internal/shared/clock"
)

func TestMock(t *testing.T) {
	start := time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)
	m := clock.NewMock(start)
	assert.Equal(t, start, m.Now())

	m.Advance(48 * time.Hour)
	assert.Equal(t, start.Add(48*time.Hour), m.Now())

	later := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.Set(later)
	assert.Equal(t, later, m.Now())
}

func TestRealIsRecent(t *testing.T) {
	var c clock.Clock = clock.Real{}
	assert.WithinDuration(t, time.Now(), c.Now(), time.Second)
}
