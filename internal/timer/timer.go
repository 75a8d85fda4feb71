package timer

import (
	"sync"
	"time"
)

// Clock returns the current time.
type Clock func() time.Time

// Stopwatch captures the bounds of one interval at second precision.
type Stopwatch struct {
	mu        sync.RWMutex
	clock     Clock
	startedAt time.Time
	stoppedAt time.Time
	running   bool
}

// New returns a stopped Stopwatch reading clock. A nil clock uses time.Now.
func New(clock Clock) *Stopwatch {
	if clock == nil {
		clock = time.Now
	}
	return &Stopwatch{clock: clock}
}

// NewAt returns a Stopwatch that has been running since startedAt.
func NewAt(clock Clock, startedAt time.Time) *Stopwatch {
	s := New(clock)
	s.startedAt = startedAt.Truncate(time.Second)
	s.running = true
	return s
}

func (s *Stopwatch) now() time.Time {
	return s.clock().Truncate(time.Second)
}

// Start begins a new interval and returns its start time.
func (s *Stopwatch) Start() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.startedAt = s.now()
	s.stoppedAt = time.Time{}
	s.running = true
	return s.startedAt
}

// Stop ends the interval and returns its end time. Stopping a stopped
// Stopwatch returns the previous end time.
func (s *Stopwatch) Stop() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return s.stoppedAt
	}
	s.stoppedAt = s.now()
	s.running = false
	return s.stoppedAt
}

func (s *Stopwatch) StartedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.startedAt
}

// Elapsed is the time since Start while running, or the length of the last
// interval once stopped. It never goes below zero.
func (s *Stopwatch) Elapsed() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	end := s.stoppedAt
	if s.running {
		end = s.now()
	}
	if s.startedAt.IsZero() {
		return 0
	}
	return max(end.Sub(s.startedAt), 0)
}

func (s *Stopwatch) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}
