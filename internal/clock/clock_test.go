package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMock_AdvanceFiresDueTimers(t *testing.T) {
	start := time.Date(2025, 8, 4, 6, 0, 0, 0, time.UTC)
	c := NewMock(start)

	var fired []string
	c.AfterFunc(time.Minute, func() { fired = append(fired, "1m") })
	c.AfterFunc(time.Hour, func() { fired = append(fired, "1h") })
	assert.Equal(t, 2, c.Pending())

	c.Advance(30 * time.Second)
	assert.Empty(t, fired)

	c.Advance(30 * time.Second)
	assert.Equal(t, []string{"1m"}, fired)
	assert.Equal(t, 1, c.Pending())
	assert.Equal(t, start.Add(time.Minute), c.Now())

	c.Advance(time.Hour)
	assert.Equal(t, []string{"1m", "1h"}, fired)
	assert.Zero(t, c.Pending())
}

func TestMock_StoppedTimerDoesNotFire(t *testing.T) {
	c := NewMock(time.Unix(0, 0))
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	c.Advance(time.Minute)
	assert.False(t, fired)
	assert.Zero(t, c.Pending())
}

func TestMock_SetBackwardsDoesNotFire(t *testing.T) {
	start := time.Unix(1000, 0)
	c := NewMock(start)
	fired := false
	c.AfterFunc(time.Second, func() { fired = true })

	c.Set(start.Add(-time.Hour))
	assert.False(t, fired)
	assert.Equal(t, start.Add(-time.Hour), c.Now())

	c.Set(start.Add(time.Hour))
	assert.True(t, fired)
}

func TestReal(t *testing.T) {
	c := NewReal()
	done := make(chan struct{})
	c.AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
	assert.WithinDuration(t, time.Now(), c.Now(), time.Second)
}
