// README: Per-view estimate state with a generation guard against stale passes.
package estimate

import (
	"context"
	"sync"

	"vtc/internal/types"
)

// Estimator is satisfied by *Service.
type Estimator interface {
	Estimate(ctx context.Context, req TripRequest) (*Result, error)
}

// State is a point-in-time copy of a Session, safe to render.
type State struct {
	Request TripRequest        `json:"request"`
	Result  *Result            `json:"result,omitempty"`
	Error   string             `json:"error,omitempty"`
	Kind    Kind               `json:"kind,omitempty"`
	Loading bool               `json:"loading"`
	Base    *types.Coordinates `json:"base,omitempty"`
	Closed  bool               `json:"closed"`
}

// OriginLabel follows the same rule as the trip view header.
func (s State) OriginLabel() string {
	return OriginDisplayLabel(s.Base != nil, s.Request.Origin)
}

// Session holds the state of one estimate view. Each Update takes a generation
// ticket; its outcome is committed only if no newer Update or Close happened.
type Session struct {
	estimator Estimator
	base      BaseLocator

	mu         sync.Mutex
	generation uint64
	state      State
}

func NewSession(estimator Estimator, base BaseLocator) *Session {
	return &Session{estimator: estimator, base: base}
}

// Load fetches the vehicle base once. A failure leaves the base unknown.
func (s *Session) Load(ctx context.Context) {
	s.mu.Lock()
	if s.state.Base != nil || s.state.Closed || s.base == nil {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	c, ok := s.base.VehicleBase(ctx)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Closed {
		s.state.Base = &c
	}
}

// Update starts a new pass for req and blocks until it finishes. It reports
// whether the outcome was committed; a false return means a newer pass or Close
// superseded it and the outcome was dropped.
func (s *Session) Update(ctx context.Context, req TripRequest) bool {
	s.mu.Lock()
	if s.state.Closed {
		s.mu.Unlock()
		return false
	}
	s.generation++
	ticket := s.generation
	s.state.Request = req
	s.state.Loading = true
	s.state.Error = ""
	s.state.Kind = ""
	s.mu.Unlock()

	res, err := s.estimator.Estimate(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Closed || ticket != s.generation {
		return false
	}
	s.state.Loading = false
	s.state.Result = res
	if err != nil {
		s.state.Result = nil
		s.state.Error, s.state.Kind = failureText(err)
	}
	return true
}

// Close invalidates every in-flight pass. Later Updates are ignored.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.state.Closed = true
	s.state.Loading = false
}

func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if st.Base != nil {
		b := *st.Base
		st.Base = &b
	}
	return st
}

func failureText(err error) (string, Kind) {
	f := Classify(err)
	return f.Message, f.Kind
}
