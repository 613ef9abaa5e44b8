// Package scheduler drives the update cycle. Its Run loop is the applet's only
// control thread: timed updates, manual refreshes and configuration reloads
// all execute there, one at a time.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/indicator-tide/indicator-tide/internal/clock"
)

// Controller is the part of cycle.Controller the scheduler drives.
type Controller interface {
	Update() int
	ReloadConfig() error
	Invalidate()
}

// Scheduler runs update cycles at the interval each cycle returns.
type Scheduler struct {
	ctrl   Controller
	clock  clock.Clock
	logger *zap.Logger

	tick            chan struct{}
	refresh         chan struct{}
	configChanged   chan struct{}
	providerChanged chan struct{}
	do              chan func()

	timer clock.Timer
	// AfterCycle, when set, is called on the control thread after each cycle.
	AfterCycle func()
}

// New creates a scheduler.
func New(ctrl Controller, clk clock.Clock, logger *zap.Logger) *Scheduler {
	if clk == nil {
		clk = clock.NewReal()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		ctrl:            ctrl,
		clock:           clk,
		logger:          logger,
		tick:            make(chan struct{}, 1),
		refresh:         make(chan struct{}, 1),
		configChanged:   make(chan struct{}, 1),
		providerChanged: make(chan struct{}, 1),
		do:              make(chan func()),
	}
}

// Refresh requests an immediate cycle.
func (s *Scheduler) Refresh() { post(s.refresh) }

// ConfigChanged requests a reload of the configuration file followed by a
// cycle. A changed file counts as a preferences commit, so the cached
// provider is always dropped.
func (s *Scheduler) ConfigChanged() { post(s.configChanged) }

// ProviderChanged drops the cached provider and runs a cycle.
func (s *Scheduler) ProviderChanged() { post(s.providerChanged) }

// Do runs fn on the control thread and waits for it. It returns false if ctx
// ends first.
func (s *Scheduler) Do(ctx context.Context, fn func()) bool {
	done := make(chan struct{})
	select {
	case s.do <- func() { fn(); close(done) }:
	case <-ctx.Done():
		return false
	}
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}

// Run executes a cycle immediately and then serves requests until ctx ends.
func (s *Scheduler) Run(ctx context.Context) {
	s.cycle()
	for {
		select {
		case <-ctx.Done():
			if s.timer != nil {
				s.timer.Stop()
			}
			return
		case <-s.tick:
			s.cycle()
		case <-s.refresh:
			s.logger.Debug("Manual refresh")
			s.cycle()
		case <-s.configChanged:
			if err := s.ctrl.ReloadConfig(); err != nil {
				s.logger.Warn("Failed to reload configuration", zap.Error(err))
			}
			s.ctrl.Invalidate()
			s.cycle()
		case <-s.providerChanged:
			s.ctrl.Invalidate()
			s.cycle()
		case fn := <-s.do:
			fn()
		}
	}
}

func (s *Scheduler) cycle() {
	if s.timer != nil {
		s.timer.Stop()
	}
	seconds := s.ctrl.Update()
	if seconds <= 0 {
		seconds = 1
	}
	next := time.Duration(seconds) * time.Second
	s.timer = s.clock.AfterFunc(next, func() { post(s.tick) })
	s.logger.Debug("Next update scheduled", zap.Duration("in", next))
	if s.AfterCycle != nil {
		s.AfterCycle()
	}
}

func post(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
