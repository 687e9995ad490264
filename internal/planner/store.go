package planner

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"itinera/pkg/metrics"
	"itinera/pkg/utils"
)

// Async kinds. A newer ticket of the same kind supersedes older ones.
const KindRoute = "route"

func KindDay(city string) string {
	return "day:" + strings.ToLower(city)
}

func KindGeocode(city, place string) string {
	return "geocode:" + strings.ToLower(city) + ":" + strings.ToLower(place)
}

// Ticket identifies one in-flight async request.
type Ticket struct {
	Kind       string
	Generation uint64
	Epoch      uint64
}

// Store owns the state of one planning session. Dispatch and Commit are
// serialized; external calls happen between Begin and Commit without the lock.
type Store struct {
	mu        sync.Mutex
	sessionID string
	state     State
	fields    *Fields
	gens      map[string]uint64
	epoch     uint64
	log       *zap.Logger
}

func NewStore(sessionID string, initial State, fields *Fields, log *zap.Logger) *Store {
	return &Store{
		sessionID: sessionID,
		state:     initial.clone(),
		fields:    fields,
		gens:      make(map[string]uint64),
		log:       log.With(zap.String("session_id", sessionID)),
	}
}

func (s *Store) SessionID() string { return s.sessionID }

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Dispatch applies a and persists the fields it changed.
func (s *Store) Dispatch(ctx context.Context, a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(ctx, a)
}

func (s *Store) applyLocked(ctx context.Context, a Action) State {
	prev := s.state
	s.state = Reduce(prev, a)

	switch {
	case isClear(a):
		s.epoch++
		s.fields.SaveAll(ctx, s.sessionID, s.state)
	default:
		for _, kind := range superseded(a) {
			s.gens[kind]++
		}
		s.fields.SaveChanged(ctx, s.sessionID, prev, s.state)
	}

	s.log.Debug("planner action", zap.String("action", Name(a)))
	return s.state.clone()
}

// Begin starts an async request of kind and supersedes any earlier one.
func (s *Store) Begin(kind string) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[kind]++
	return Ticket{Kind: kind, Generation: s.gens[kind], Epoch: s.epoch}
}

// Commit applies a only if t is still the newest ticket of its kind and the
// session was not cleared since Begin. Otherwise the response is dropped and
// utils.ErrStaleResponse is returned with the unchanged state.
func (s *Store) Commit(ctx context.Context, t Ticket, a Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Epoch != s.epoch || t.Generation != s.gens[t.Kind] {
		s.log.Info("discarding superseded response",
			zap.String("kind", t.Kind), zap.String("action", Name(a)))
		metrics.StaleResponses.WithLabelValues(kindLabel(t.Kind)).Inc()
		return s.state.clone(), utils.ErrStaleResponse
	}
	return s.applyLocked(ctx, a), nil
}

func isClear(a Action) bool {
	_, ok := a.(Clear)
	return ok
}

// kindLabel trims per-city suffixes so metric cardinality stays bounded.
func kindLabel(kind string) string {
	if i := strings.IndexByte(kind, ':'); i >= 0 {
		return kind[:i]
	}
	return kind
}
