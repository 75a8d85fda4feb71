package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func TestStopwatchInterval(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 5, 9, 0, 0, 250_000_000, time.Local)}
	sw := New(clock.Now)

	assert.False(t, sw.Running())
	assert.Zero(t, sw.Elapsed())

	start := sw.Start()
	assert.True(t, time.Date(2024, 1, 5, 9, 0, 0, 0, time.Local).Equal(start), "start is truncated to seconds")
	assert.True(t, sw.Running())

	clock.Advance(15*time.Minute + 30*time.Second)
	assert.Equal(t, 15*time.Minute+30*time.Second, sw.Elapsed())

	end := sw.Stop()
	assert.False(t, sw.Running())
	assert.Equal(t, 930*time.Second, end.Sub(start))

	clock.Advance(time.Hour)
	assert.Equal(t, end, sw.Stop(), "stopping twice keeps the first end time")
	assert.Equal(t, 930*time.Second, sw.Elapsed())
}

func TestStopwatchRestart(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 5, 9, 0, 0, 0, time.Local)}
	sw := New(clock.Now)

	sw.Start()
	clock.Advance(time.Minute)
	sw.Stop()

	clock.Advance(time.Minute)
	second := sw.Start()
	assert.True(t, clock.now.Equal(second))
	assert.Zero(t, sw.Elapsed())
}

func TestStopwatchNeverNegative(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 5, 9, 0, 0, 0, time.Local)}
	sw := New(clock.Now)

	sw.Start()
	clock.Advance(-time.Minute)
	assert.Zero(t, sw.Elapsed())
}

func TestNewAt(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 5, 9, 5, 0, 0, time.Local)}
	sw := NewAt(clock.Now, time.Date(2024, 1, 5, 9, 0, 0, 0, time.Local))

	assert.True(t, sw.Running())
	assert.Equal(t, 5*time.Minute, sw.Elapsed())
}

func TestNewNilClockUsesWallClock(t *testing.T) {
	sw := New(nil)
	start := sw.Start()
	assert.WithinDuration(t, time.Now(), start, 2*time.Second)
}
