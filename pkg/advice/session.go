// Package advice drives the per-plant advice lifecycle:
// Idle -> Loading -> Success | Error, and Regenerate back through Loading.
package advice

import (
	"context"
	"sync"
	"sync/atomic"

	"plantcare/entities"
)

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateError   State = "error"
)

// Acquirer returns cached advice, or generates and persists new advice when
// there is none or force is set.
type Acquirer interface {
	Acquire(ctx context.Context, plantID string, force bool) (*entities.WateringAdvice, error)
}

// CacheReader reports stored advice without generating any. Acquirers that
// implement it let a session skip the Loading state on a cache hit.
type CacheReader interface {
	Cached(ctx context.Context, plantID string) (*entities.WateringAdvice, error)
}

type Snapshot struct {
	State  State                    `json:"state"`
	Advice *entities.WateringAdvice `json:"advice,omitempty"`
	Err    error                    `json:"-"`
}

// Session is one mount of a plant's detail view.
type Session struct {
	acq     Acquirer
	plantID string

	// latch; set before the first acquisition starts
	started atomic.Bool

	mu    sync.Mutex
	snap  Snapshot
	watch []func(Snapshot)
}

func NewSession(acq Acquirer, plantID string) *Session {
	return &Session{acq: acq, plantID: plantID, snap: Snapshot{State: StateIdle}}
}

// OnChange registers a callback invoked after every state transition.
func (s *Session) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	s.watch = append(s.watch, fn)
	s.mu.Unlock()
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Start runs the initial acquisition at most once per session. Later calls
// return the current snapshot without side effects. Stored advice moves the
// session straight to Success.
func (s *Session) Start(ctx context.Context) Snapshot {
	if !s.started.CompareAndSwap(false, true) {
		return s.Snapshot()
	}
	if c, ok := s.acq.(CacheReader); ok {
		if adv, err := c.Cached(ctx, s.plantID); err == nil && adv != nil {
			return s.set(Snapshot{State: StateSuccess, Advice: adv})
		}
	}
	if !s.begin() {
		return s.Snapshot()
	}
	return s.finish(s.acq.Acquire(ctx, s.plantID, false))
}

// Regenerate forces fresh advice unless an acquisition is already loading.
func (s *Session) Regenerate(ctx context.Context) Snapshot {
	s.started.Store(true)
	if !s.begin() {
		return s.Snapshot()
	}
	return s.finish(s.acq.Acquire(ctx, s.plantID, true))
}

// begin enters Loading, keeping the previous advice visible. It reports false
// when another acquisition already holds the Loading state.
func (s *Session) begin() bool {
	s.mu.Lock()
	if s.snap.State == StateLoading {
		s.mu.Unlock()
		return false
	}
	next := Snapshot{State: StateLoading, Advice: s.snap.Advice}
	s.snap = next
	watch := append([]func(Snapshot){}, s.watch...)
	s.mu.Unlock()
	notify(watch, next)
	return true
}

func (s *Session) finish(adv *entities.WateringAdvice, err error) Snapshot {
	if err != nil {
		return s.set(Snapshot{State: StateError, Err: err})
	}
	return s.set(Snapshot{State: StateSuccess, Advice: adv})
}

func (s *Session) set(next Snapshot) Snapshot {
	s.mu.Lock()
	s.snap = next
	watch := append([]func(Snapshot){}, s.watch...)
	s.mu.Unlock()
	notify(watch, next)
	return next
}

func notify(watch []func(Snapshot), snap Snapshot) {
	for _, fn := range watch {
		fn(snap)
	}
}
