package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"heblo/internal/core/ports"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

const (
	DefaultDebounce    = 5 * time.Second
	DefaultMaxInterval = 30 * time.Minute
)

const (
	triggerDebounce    = "debounce"
	triggerMaxInterval = "max_interval"
)

// MergeObserver receives merge outcomes, typically to export metrics.
type MergeObserver interface {
	ObserveMerge(trigger string, duration time.Duration, err error)
	ObserveSkippedMerge(trigger string)
}

type noopObserver struct{}

func (noopObserver) ObserveMerge(string, time.Duration, error) {}
func (noopObserver) ObserveSkippedMerge(string) {}

// SchedulerOption configures a MergeScheduler.
type SchedulerOption func(*MergeScheduler)

// WithDebounce sets the quiet period after the last invalidation.
func WithDebounce(d time.Duration) SchedulerOption {
	return func(s *MergeScheduler) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithMaxInterval sets the staleness ceiling measured from the first pending invalidation.
func WithMaxInterval(d time.Duration) SchedulerOption {
	return func(s *MergeScheduler) {
		if d > 0 {
			s.maxInterval = d
		}
	}
}

// WithObserver registers a MergeObserver.
func WithObserver(o MergeObserver) SchedulerOption {
	return func(s *MergeScheduler) {
		if o != nil {
			s.observer = o
		}
	}
}

// MergeScheduler debounces source invalidations into single merge runs.
//
// Rules:
//   - every ScheduleMerge re-arms the debounce timer
//   - once the first pending invalidation is older than the max interval, the merge
//     runs immediately instead of re-arming
//   - at most one merge runs at a time; a trigger that finds a merge running is skipped
//   - pending invalidations are cleared only by a successful merge
//   - a failed merge keeps its invalidations pending and re-arms the debounce timer
//   - a merge callback that was never registered leaves invalidations pending
//   - after the lifetime context is done, or Stop is called, the armed timer is
//     disposed and new invalidations are ignored
//
// All methods are safe for concurrent use.
type MergeScheduler struct {
	ctx         context.Context
	logger      *slog.Logger
	observer    MergeObserver
	debounce    time.Duration
	maxInterval time.Duration
	gate        *semaphore.Weighted
	running     atomic.Bool

	mu            sync.Mutex
	callback      ports.MergeFunc
	timer         *time.Timer
	generation    uint64
	invalidations map[string]time.Time
	inFlight      chan struct{}
	lastMerge     time.Time
	stopped       bool
}

var _ ports.MergeScheduler = (*MergeScheduler)(nil)

// NewMergeScheduler creates a scheduler bound to ctx. Merge callbacks receive ctx,
// and the scheduler stops when ctx is done.
func NewMergeScheduler(ctx context.Context, logger *slog.Logger, opts ...SchedulerOption) *MergeScheduler {
	s := &MergeScheduler{
		ctx:           ctx,
		logger:        logger.With("component", "CatalogMergeScheduler"),
		observer:      noopObserver{},
		debounce:      DefaultDebounce,
		maxInterval:   DefaultMaxInterval,
		gate:          semaphore.NewWeighted(1),
		invalidations: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}

	context.AfterFunc(ctx, s.Stop)
	return s
}

func (s *MergeScheduler) SetMergeCallback(fn ports.MergeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callback = fn
}

func (s *MergeScheduler) ScheduleMerge(source string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		s.logger.Debug("merge scheduling ignored after shutdown", "source", source)
		return
	}

	now := time.Now()
	if _, ok := s.invalidations[source]; !ok {
		s.invalidations[source] = now
	}

	if first := s.firstInvalidationLocked(); now.Sub(first) >= s.maxInterval {
		s.logger.Info("max merge interval exceeded, merging immediately",
			"source", source,
			"pending_since", first,
		)
		s.disarmLocked()
		go s.runMerge(triggerMaxInterval)
		return
	}

	s.armLocked()
}

func (s *MergeScheduler) IsMergeInProgress() bool {
	return s.running.Load()
}

func (s *MergeScheduler) HasPendingMerge() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

func (s *MergeScheduler) LastMergeTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastMerge
}

// PendingSources returns the sources invalidated since the last successful merge.
func (s *MergeScheduler) PendingSources() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	sources := make([]string, 0, len(s.invalidations))
	for name := range s.invalidations {
		sources = append(sources, name)
	}
	return sources
}

func (s *MergeScheduler) WaitForCurrentMerge(ctx context.Context) error {
	s.mu.Lock()
	done := s.inFlight
	s.mu.Unlock()

	if done == nil {
		return nil
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop disposes the armed timer and makes the scheduler ignore further invalidations.
// A merge that is already running is allowed to finish.
func (s *MergeScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.stopped = true
	s.disarmLocked()
	s.logger.Info("merge scheduler stopped", "pending_sources", len(s.invalidations))
}

func (s *MergeScheduler) armLocked() {
	s.disarmLocked()

	gen := s.generation
	s.timer = time.AfterFunc(s.debounce, func() {
		s.onTimer(gen)
	})
}

func (s *MergeScheduler) disarmLocked() {
	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// onTimer ignores fires of timers that were re-armed or disposed in the meantime.
func (s *MergeScheduler) onTimer(gen uint64) {
	s.mu.Lock()
	if s.stopped || gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	s.runMerge(triggerDebounce)
}

func (s *MergeScheduler) firstInvalidationLocked() time.Time {
	var first time.Time
	for _, t := range s.invalidations {
		if first.IsZero() || t.Before(first) {
			first = t
		}
	}
	return first
}

func (s *MergeScheduler) runMerge(trigger string) {
	if !s.gate.TryAcquire(1) {
		s.logger.InfoContext(s.ctx, "merge already in progress, skipping", "trigger", trigger)
		s.observer.ObserveSkippedMerge(trigger)
		return
	}
	defer s.gate.Release(1)

	s.mu.Lock()
	callback := s.callback
	if callback == nil {
		s.mu.Unlock()
		s.logger.WarnContext(s.ctx, "merge callback is not registered, invalidations stay pending", "trigger", trigger)
		return
	}
	merging := s.invalidations
	s.invalidations = make(map[string]time.Time)
	done := make(chan struct{})
	s.inFlight = done
	s.running.Store(true)
	s.mu.Unlock()

	runID := uuid.NewString()
	logger := s.logger.With("merge_id", runID, "trigger", trigger, "sources", len(merging))
	logger.InfoContext(s.ctx, "catalog merge started")

	started := time.Now()
	err := s.invoke(callback)
	elapsed := time.Since(started)

	s.mu.Lock()
	s.running.Store(false)
	if err == nil {
		s.lastMerge = time.Now()
	} else {
		for name, t := range merging {
			if pending, ok := s.invalidations[name]; !ok || t.Before(pending) {
				s.invalidations[name] = t
			}
		}
	}
	if len(s.invalidations) > 0 && s.timer == nil && !s.stopped {
		s.armLocked()
	}
	s.inFlight = nil
	close(done)
	s.mu.Unlock()

	s.observer.ObserveMerge(trigger, elapsed, err)
	if err != nil {
		logger.ErrorContext(s.ctx, "catalog merge failed, will retry", "error", err, "duration", elapsed)
		return
	}
	logger.InfoContext(s.ctx, "catalog merge completed", "duration", elapsed)
}

func (s *MergeScheduler) invoke(callback ports.MergeFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("merge callback panicked: %v", r)
		}
	}()
	return callback(s.ctx)
}
