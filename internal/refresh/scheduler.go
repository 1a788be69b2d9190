// Package refresh runs the periodic sources refresh.
package refresh

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/grovetools/surround/logging"
	"github.com/sirupsen/logrus"
)

// DefaultInterval is the period between refreshes.
const DefaultInterval = 5 * time.Second

// Func performs one refresh. It is responsible for its own error reporting.
type Func func(ctx context.Context)

// Scheduler calls a refresh function once on start and then on every tick
// until stopped.
type Scheduler struct {
	interval time.Duration
	refresh  Func
	logger   *logrus.Entry

	trigger chan struct{}

	mu       sync.Mutex
	started  bool
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a scheduler. A non-positive interval uses DefaultInterval.
func New(interval time.Duration, refresh Func) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		interval: interval,
		refresh:  refresh,
		logger:   logging.NewLogger("refresh"),
		trigger:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Interval returns the refresh period.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Start performs an immediate refresh in the background and schedules the
// rest. The loop ends when ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("refresh scheduler already started")
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	go s.run(ctx)
	return nil
}

// Trigger requests a refresh ahead of the next tick. Requests coalesce.
func (s *Scheduler) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Stop cancels the schedule and waits for the loop to exit. Only the first
// call has an effect.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		cancel, started := s.cancel, s.started
		s.started = true
		s.mu.Unlock()

		if !started {
			close(s.done)
			return
		}
		cancel()
		<-s.done
	})
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.WithField("interval", s.interval).Debug("Starting refresh loop")
	s.run1(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.run1(ctx)
		case <-s.trigger:
			s.run1(ctx)
		}
	}
}

func (s *Scheduler) run1(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	s.refresh(ctx)
	if d := time.Since(start); d > s.interval {
		s.logger.WithField("duration", d).Warn("Slow refresh detected")
	}
}
