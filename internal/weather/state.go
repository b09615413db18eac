package weather

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrFetchFailed is the single error kind surfaced to consumers.
	ErrFetchFailed = errors.New("failed to fetch weather data")
	// ErrClosed is returned by Wait once the state has been torn down.
	ErrClosed = errors.New("weather state closed")
)

// DefaultFetchDelay is the simulated latency before a fetch resolves.
const DefaultFetchDelay = time.Second

// Phase names the position of the state machine.
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseFailed  Phase = "failed"
)

// Result is what consumers render. While Loading is set Data must not be
// relied on; while Err is set Data is nil. Otherwise Data is populated.
type Result struct {
	Data    *Snapshot
	Loading bool
	Err     error
}

// Phase derives the state machine position from the result.
func (r Result) Phase() Phase {
	switch {
	case r.Loading:
		return PhaseLoading
	case r.Err != nil:
		return PhaseFailed
	default:
		return PhaseReady
	}
}

// Timer is a scheduled task that can be cancelled. *time.Timer satisfies it.
type Timer interface {
	Stop() bool
}

// Timers schedules delayed work.
type Timers interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemTimers struct{}

func (systemTimers) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a State.
type Option func(*State)

// WithDelay overrides the simulated fetch latency.
func WithDelay(d time.Duration) Option {
	return func(s *State) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithTimers replaces the wall-clock scheduler.
func WithTimers(t Timers) Option {
	return func(s *State) {
		if t != nil {
			s.timers = t
		}
	}
}

// WithObserver registers a callback invoked after every settled cycle.
// It runs on the resolving goroutine without the state lock held.
func WithObserver(fn func(Result)) Option {
	return func(s *State) {
		s.observer = fn
	}
}

// State owns the loading/error/data cycle for the current weather.
// Construction immediately enters Loading; Refresh re-enters it from any
// phase; Close stops the pending task and freezes the state.
type State struct {
	source   Source
	delay    time.Duration
	timers   Timers
	observer func(Result)

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	data    *Snapshot
	loading bool
	err     error
	gen     uint64
	pending Timer
	settled chan struct{}
	closed  bool
}

// NewState creates the state and schedules the first fetch.
func NewState(source Source, opts ...Option) *State {
	s := &State{
		source: source,
		delay:  DefaultFetchDelay,
		timers: systemTimers{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.Refresh()
	return s
}

// Result returns the current view of the state.
func (s *State) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resultLocked()
}

func (s *State) resultLocked() Result {
	res := Result{Loading: s.loading, Err: s.err}
	if s.data != nil {
		d := *s.data
		res.Data = &d
	}
	return res
}

// Refresh re-enters Loading and schedules a new fetch. A fetch that was
// still pending is cancelled and its result, if any, is discarded.
func (s *State) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if s.pending != nil {
		s.pending.Stop()
	}
	if !s.loading {
		s.settled = make(chan struct{})
	}

	s.gen++
	s.loading = true
	s.err = nil

	gen := s.gen
	s.pending = s.timers.AfterFunc(s.delay, func() {
		s.resolve(gen)
	})
}

func (s *State) resolve(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	snap, err := s.fetch()

	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.data = nil
		s.err = fmt.Errorf("%w: %v", ErrFetchFailed, err)
	} else {
		s.data = &snap
		s.err = nil
	}
	s.loading = false
	s.pending = nil
	close(s.settled)

	res := s.resultLocked()
	observer := s.observer
	s.mu.Unlock()

	if observer != nil {
		observer(res)
	}
}

// fetch turns a panicking source into a failed cycle.
func (s *State) fetch() (snap Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("source panicked: %v", r)
		}
	}()
	return s.source.Fetch(s.ctx)
}

// Wait blocks until the current cycle settles, the state is closed, or ctx
// is done.
func (s *State) Wait(ctx context.Context) (Result, error) {
	s.mu.Lock()
	ch := s.settled
	s.mu.Unlock()

	select {
	case <-ch:
	case <-ctx.Done():
		return s.Result(), ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.resultLocked(), ErrClosed
	}
	return s.resultLocked(), nil
}

// Close tears the state down. Pending work is cancelled and no later
// resolution touches the state.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.cancel()
	if s.loading {
		close(s.settled)
	}
}
