package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/indicator-tide/indicator-tide/internal/clock"
)

type recorder struct {
	calls     chan string
	interval  int
	reloadErr error
}

func newRecorder(interval int) *recorder {
	return &recorder{calls: make(chan string, 64), interval: interval}
}

func (r *recorder) Update() int {
	r.calls <- "update"
	return r.interval
}

func (r *recorder) ReloadConfig() error {
	r.calls <- "reload"
	return r.reloadErr
}

func (r *recorder) Invalidate() { r.calls <- "invalidate" }

func (r *recorder) expect(t *testing.T, want ...string) {
	t.Helper()
	for _, w := range want {
		select {
		case got := <-r.calls:
			require.Equal(t, w, got)
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for %q", w)
		}
	}
}

func (r *recorder) expectNothing(t *testing.T) {
	t.Helper()
	select {
	case got := <-r.calls:
		t.Fatalf("unexpected call %q", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func start(t *testing.T, rec *recorder, clk clock.Clock) (*Scheduler, context.CancelFunc, chan struct{}) {
	t.Helper()
	s := New(rec, clk, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(stopped)
	}()
	return s, cancel, stopped
}

func TestScheduler_UsesReturnedInterval(t *testing.T) {
	defer goleak.VerifyNone(t)

	clk := clock.NewMock(time.Unix(0, 0))
	rec := newRecorder(1800)
	_, cancel, stopped := start(t, rec, clk)

	rec.expect(t, "update")
	require.Eventually(t, func() bool { return clk.Pending() == 1 }, time.Second, time.Millisecond)

	clk.Advance(29 * time.Minute)
	rec.expectNothing(t)

	clk.Advance(time.Minute)
	rec.expect(t, "update")

	cancel()
	<-stopped
	assert.Zero(t, clk.Pending())
}

func TestScheduler_Requests(t *testing.T) {
	defer goleak.VerifyNone(t)

	clk := clock.NewMock(time.Unix(0, 0))
	rec := newRecorder(1800)
	rec.reloadErr = errors.New("malformed")
	s, cancel, stopped := start(t, rec, clk)
	defer func() {
		cancel()
		<-stopped
	}()

	rec.expect(t, "update")

	s.Refresh()
	rec.expect(t, "update")

	s.ConfigChanged()
	rec.expect(t, "reload", "invalidate", "update")

	s.ProviderChanged()
	rec.expect(t, "invalidate", "update")

	require.Eventually(t, func() bool { return clk.Pending() == 1 }, time.Second, time.Millisecond,
		"each cycle replaces the pending timer")
}

func TestScheduler_Do(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := newRecorder(1800)
	s, cancel, stopped := start(t, rec, clock.NewMock(time.Unix(0, 0)))
	rec.expect(t, "update")

	ran := false
	assert.True(t, s.Do(context.Background(), func() { ran = true }))
	assert.True(t, ran)

	cancel()
	<-stopped

	ctx, cancelDo := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancelDo()
	assert.False(t, s.Do(ctx, func() {}))
}

func TestScheduler_RequestsCoalesce(t *testing.T) {
	s := New(newRecorder(1), nil, nil)
	for i := 0; i < 10; i++ {
		s.Refresh()
	}
	assert.Len(t, s.refresh, 1)
}
