package planner

import (
	"context"
	"encoding/json"
	"reflect"

	"go.uber.org/zap"
	"itinera/internal/repositories"
)

// Field is one persisted value of a session, stored as JSON under Key.
type Field[T any] struct {
	Key     string
	Initial T
	repo    repositories.PlannerStateRepository
	log     *zap.Logger
}

func NewField[T any](repo repositories.PlannerStateRepository, log *zap.Logger, key string, initial T) Field[T] {
	return Field[T]{Key: key, Initial: initial, repo: repo, log: log}
}

// Load returns the stored value, or Initial when the key is absent, the
// repository fails, or the stored JSON does not decode into T.
func (f Field[T]) Load(ctx context.Context, sessionID string) T {
	raw, ok, err := f.repo.Get(ctx, sessionID, f.Key)
	if err != nil {
		f.log.Error("error reading planner state",
			zap.String("session_id", sessionID), zap.String("key", f.Key), zap.Error(err))
		return f.Initial
	}
	if !ok {
		return f.Initial
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		f.log.Warn("malformed planner state, using default",
			zap.String("session_id", sessionID), zap.String("key", f.Key), zap.Error(err))
		return f.Initial
	}
	return v
}

// Save writes v. Failures are logged and otherwise ignored.
func (f Field[T]) Save(ctx context.Context, sessionID string, v T) {
	b, err := json.Marshal(v)
	if err != nil {
		f.log.Error("error encoding planner state",
			zap.String("session_id", sessionID), zap.String("key", f.Key), zap.Error(err))
		return
	}
	if err := f.repo.Set(ctx, sessionID, f.Key, string(b)); err != nil {
		f.log.Error("error writing planner state",
			zap.String("session_id", sessionID), zap.String("key", f.Key), zap.Error(err))
	}
}

// saveIfChanged writes next only when it differs from prev.
func (f Field[T]) saveIfChanged(ctx context.Context, sessionID string, prev, next T) bool {
	if reflect.DeepEqual(prev, next) {
		return false
	}
	f.Save(ctx, sessionID, next)
	return true
}

// Fields binds every persisted part of State to its storage key.
type Fields struct {
	StartPoint            Field[string]
	EndPoint              Field[string]
	IntermediateCities    Field[[]string]
	SidebarTab            Field[string]
	SelectedCity          Field[*string]
	SelectedPlacesPerCity Field[map[string][]SelectedPlace]
	MapView               Field[MapView]

	repo repositories.PlannerStateRepository
	log  *zap.Logger
}

func NewFields(repo repositories.PlannerStateRepository, log *zap.Logger) *Fields {
	d := DefaultState()
	return &Fields{
		StartPoint:            NewField(repo, log, KeyStartPoint, d.StartPoint),
		EndPoint:              NewField(repo, log, KeyEndPoint, d.EndPoint),
		IntermediateCities:    NewField(repo, log, KeyIntermediateCities, d.IntermediateCities),
		SidebarTab:            NewField(repo, log, KeySidebarTab, d.SidebarTab),
		SelectedCity:          NewField[*string](repo, log, KeySelectedCity, nil),
		SelectedPlacesPerCity: NewField(repo, log, KeySelectedPlacesPerCity, d.SelectedPlacesPerCity),
		MapView:               NewField(repo, log, KeyMapView, d.MapView),
		repo:                  repo,
		log:                   log,
	}
}

// Load reconstructs a session's state from storage. Transient parts start empty.
func (f *Fields) Load(ctx context.Context, sessionID string) State {
	s := DefaultState()
	s.StartPoint = f.StartPoint.Load(ctx, sessionID)
	s.EndPoint = f.EndPoint.Load(ctx, sessionID)
	s.IntermediateCities = f.IntermediateCities.Load(ctx, sessionID)
	s.SidebarTab = f.SidebarTab.Load(ctx, sessionID)
	s.SelectedCity = f.SelectedCity.Load(ctx, sessionID)
	s.SelectedPlacesPerCity = f.SelectedPlacesPerCity.Load(ctx, sessionID)
	s.MapView = f.MapView.Load(ctx, sessionID)

	// A stored JSON null decodes to nil.
	if s.IntermediateCities == nil {
		s.IntermediateCities = []string{}
	}
	if s.SelectedPlacesPerCity == nil {
		s.SelectedPlacesPerCity = map[string][]SelectedPlace{}
	}
	// Initial values are shared between sessions.
	return s.clone()
}

// SaveChanged writes every persisted field that differs between prev and next
// and returns how many were written.
func (f *Fields) SaveChanged(ctx context.Context, sessionID string, prev, next State) int {
	n := 0
	if f.StartPoint.saveIfChanged(ctx, sessionID, prev.StartPoint, next.StartPoint) {
		n++
	}
	if f.EndPoint.saveIfChanged(ctx, sessionID, prev.EndPoint, next.EndPoint) {
		n++
	}
	if f.IntermediateCities.saveIfChanged(ctx, sessionID, prev.IntermediateCities, next.IntermediateCities) {
		n++
	}
	if f.SidebarTab.saveIfChanged(ctx, sessionID, prev.SidebarTab, next.SidebarTab) {
		n++
	}
	if f.SelectedCity.saveIfChanged(ctx, sessionID, prev.SelectedCity, next.SelectedCity) {
		n++
	}
	if f.SelectedPlacesPerCity.saveIfChanged(ctx, sessionID, prev.SelectedPlacesPerCity, next.SelectedPlacesPerCity) {
		n++
	}
	if f.MapView.saveIfChanged(ctx, sessionID, prev.MapView, next.MapView) {
		n++
	}
	return n
}

// SaveAll writes every persisted field of s.
func (f *Fields) SaveAll(ctx context.Context, sessionID string, s State) {
	f.StartPoint.Save(ctx, sessionID, s.StartPoint)
	f.EndPoint.Save(ctx, sessionID, s.EndPoint)
	f.IntermediateCities.Save(ctx, sessionID, s.IntermediateCities)
	f.SidebarTab.Save(ctx, sessionID, s.SidebarTab)
	f.SelectedCity.Save(ctx, sessionID, s.SelectedCity)
	f.SelectedPlacesPerCity.Save(ctx, sessionID, s.SelectedPlacesPerCity)
	f.MapView.Save(ctx, sessionID, s.MapView)
}

// Forget deletes every stored field of the session.
func (f *Fields) Forget(ctx context.Context, sessionID string) {
	if err := f.repo.DeleteSession(ctx, sessionID); err != nil {
		f.log.Error("error deleting planner state",
			zap.String("session_id", sessionID), zap.Error(err))
	}
}
