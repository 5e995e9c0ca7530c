package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystemIsMonotonic(t *testing.T) {
	c := System()
	first := c.NowNanos()
	time.Sleep(time.Millisecond)
	second := c.NowNanos()

	assert.GreaterOrEqual(t, second, first)
	assert.GreaterOrEqual(t, first, int64(0))
}

func TestManual(t *testing.T) {
	m := NewManual(100)
	assert.Equal(t, int64(100), m.NowNanos())

	m.Advance(50 * time.Nanosecond)
	assert.Equal(t, int64(150), m.NowNanos())
	assert.Equal(t, 150*time.Nanosecond, Since(m, 0))
}
