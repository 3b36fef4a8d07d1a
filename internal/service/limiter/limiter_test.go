package limiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindow(t *testing.T) {
	start := time.Unix(10_000, 0)
	now := start
	w := NewWindow(3, time.Hour)
	w.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		ok, _ := w.Check(1)
		assert.True(t, ok)
		w.Record(1)
	}

	ok, wait := w.Check(1)
	assert.False(t, ok)
	assert.Equal(t, time.Hour, wait)
	assert.Equal(t, 60, MinutesLeft(wait))

	ok, _ = w.Check(2)
	assert.True(t, ok, "users are independent")

	now = start.Add(60 * time.Minute)
	ok, _ = w.Check(1)
	assert.True(t, ok)
}

func TestWindowDoesNotRefillEarly(t *testing.T) {
	start := time.Unix(10_000, 0)
	now := start
	w := NewWindow(3, time.Hour)
	w.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		w.Record(1)
	}

	for _, after := range []time.Duration{20 * time.Minute, 21 * time.Minute, 40 * time.Minute, 59 * time.Minute} {
		now = start.Add(after)
		ok, wait := w.Check(1)
		assert.False(t, ok, "slot freed after %s", after)
		assert.Equal(t, time.Hour-after, wait)
	}
}

func TestWindowSlides(t *testing.T) {
	start := time.Unix(10_000, 0)
	now := start
	w := NewWindow(2, time.Hour)
	w.now = func() time.Time { return now }

	w.Record(1)
	now = start.Add(30 * time.Minute)
	w.Record(1)

	ok, wait := w.Check(1)
	assert.False(t, ok)
	assert.Equal(t, 30*time.Minute, wait)

	// Only the first hit has left the window.
	now = start.Add(time.Hour)
	ok, _ = w.Check(1)
	assert.True(t, ok)
	w.Record(1)

	ok, wait = w.Check(1)
	assert.False(t, ok)
	assert.Equal(t, 30*time.Minute, wait)
}

func TestCheckDoesNotConsume(t *testing.T) {
	w := NewWindow(1, time.Minute)
	for i := 0; i < 5; i++ {
		ok, _ := w.Check(7)
		assert.True(t, ok)
	}
}

func TestMinutesLeft(t *testing.T) {
	assert.Equal(t, 1, MinutesLeft(0))
	assert.Equal(t, 1, MinutesLeft(10*time.Second))
	assert.Equal(t, 2, MinutesLeft(61*time.Second))
}

func TestNewWindowDefaults(t *testing.T) {
	w := NewWindow(0, 0)
	assert.Equal(t, 1, w.Max())
	assert.Equal(t, time.Hour, w.Period())
}
