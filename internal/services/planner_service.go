package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"itinera/internal/planner"
	"itinera/pkg/utils"
)

type PlannerServiceInterface interface {
	GetState(ctx context.Context, sessionID string) (planner.State, error)

	SetStartPoint(ctx context.Context, sessionID, value string) (planner.State, error)
	SetEndPoint(ctx context.Context, sessionID, value string) (planner.State, error)
	SetIntermediateCities(ctx context.Context, sessionID string, cities []string) (planner.State, error)
	AddIntermediateCity(ctx context.Context, sessionID, city string) (planner.State, error)
	RemoveIntermediateCity(ctx context.Context, sessionID string, index int) (planner.State, error)
	SetSidebarTab(ctx context.Context, sessionID, tab string) (planner.State, error)
	SelectCity(ctx context.Context, sessionID string, city *string) (planner.State, error)
	SetMapView(ctx context.Context, sessionID string, view planner.MapView) (planner.State, error)

	AddPlace(ctx context.Context, sessionID, city, place, description string) (planner.State, error)
	TogglePlace(ctx context.Context, sessionID, city, place, description string) (planner.State, error)
	RemovePlace(ctx context.Context, sessionID, placeID string) (planner.State, error)
	RemovePlaceByName(ctx context.Context, sessionID, city, name string) (planner.State, error)

	CalculateRoute(ctx context.Context, sessionID string) (planner.State, error)
	OptimizeDay(ctx context.Context, sessionID, city string) (planner.State, error)

	Clear(ctx context.Context, sessionID string) (planner.State, error)
}

type PlannerService struct {
	registry *planner.Registry
	maps     MapsServiceInterface
	routes   RouteServiceInterface
	log      *zap.Logger
}

func NewPlannerService(
	registry *planner.Registry,
	mapsService MapsServiceInterface,
	routeService RouteServiceInterface,
	log *zap.Logger,
) PlannerServiceInterface {
	return &PlannerService{
		registry: registry,
		maps:     mapsService,
		routes:   routeService,
		log:      log,
	}
}

func (p *PlannerService) store(ctx context.Context, sessionID string) (*planner.Store, bool, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, false, utils.ErrInvalidSession
	}

	store, hydrated := p.registry.Get(ctx, sessionID)
	return store, hydrated, nil
}

// restoreRoute recomputes the transient route of a freshly hydrated session.
// Failures only leave the route empty.
func (p *PlannerService) restoreRoute(ctx context.Context, store *planner.Store) {
	st := store.State()
	if strings.TrimSpace(st.StartPoint) == "" || strings.TrimSpace(st.EndPoint) == "" {
		return
	}
	if _, err := p.calculate(ctx, store); err != nil && !errors.Is(err, utils.ErrStaleResponse) {
		p.log.Warn("could not restore route for session",
			zap.String("session_id", store.SessionID()), zap.Error(err))
	}
}

func (p *PlannerService) dispatch(ctx context.Context, sessionID string, a planner.Action) (planner.State, error) {
	store, _, err := p.store(ctx, sessionID)
	if err != nil {
		return planner.State{}, err
	}
	return store.Dispatch(ctx, a), nil
}

func (p *PlannerService) GetState(ctx context.Context, sessionID string) (planner.State, error) {
	store, hydrated, err := p.store(ctx, sessionID)
	if err != nil {
		return planner.State{}, err
	}
	if hydrated {
		p.restoreRoute(ctx, store)
	}
	return store.State(), nil
}

func (p *PlannerService) SetStartPoint(ctx context.Context, sessionID, value string) (planner.State, error) {
	return p.dispatch(ctx, sessionID, planner.SetStartPoint{Value: value})
}

func (p *PlannerService) SetEndPoint(ctx context.Context, sessionID, value string) (planner.State, error) {
	return p.dispatch(ctx, sessionID, planner.SetEndPoint{Value: value})
}

func (p *PlannerService) SetIntermediateCities(ctx context.Context, sessionID string, cities []string) (planner.State, error) {
	if cities == nil {
		cities = []string{}
	}
	return p.dispatch(ctx, sessionID, planner.SetIntermediateCities{Cities: cities})
}

func (p *PlannerService) AddIntermediateCity(ctx context.Context, sessionID, city string) (planner.State, error) {
	return p.dispatch(ctx, sessionID, planner.AddIntermediateCity{City: city})
}

func (p *PlannerService) RemoveIntermediateCity(ctx context.Context, sessionID string, index int) (planner.State, error) {
	return p.dispatch(ctx, sessionID, planner.RemoveIntermediateCity{Index: index})
}

func (p *PlannerService) SetSidebarTab(ctx context.Context, sessionID, tab string) (planner.State, error) {
	if strings.TrimSpace(tab) == "" {
		return planner.State{}, utils.ErrInvalidInput
	}
	return p.dispatch(ctx, sessionID, planner.SetSidebarTab{Value: tab})
}

func (p *PlannerService) SelectCity(ctx context.Context, sessionID string, city *string) (planner.State, error) {
	return p.dispatch(ctx, sessionID, planner.SelectCity{City: city})
}

func (p *PlannerService) SetMapView(ctx context.Context, sessionID string, view planner.MapView) (planner.State, error) {
	if view.Zoom < 0 || view.Center.Lat < -90 || view.Center.Lat > 90 || view.Center.Lng < -180 || view.Center.Lng > 180 {
		return planner.State{}, utils.ErrInvalidInput
	}
	return p.dispatch(ctx, sessionID, planner.SetMapView{View: view})
}

// AddPlace geocodes "<place>, <city>" and appends the place to the city.
// Nothing changes when geocoding fails. A place already selected by name is
// left as is.
func (p *PlannerService) AddPlace(ctx context.Context, sessionID, city, place, description string) (planner.State, error) {
	city, place = strings.TrimSpace(city), strings.TrimSpace(place)
	if city == "" || place == "" {
		return planner.State{}, utils.ErrInvalidInput
	}

	store, _, err := p.store(ctx, sessionID)
	if err != nil {
		return planner.State{}, err
	}
	if st := store.State(); st.HasPlaceNamed(city, place) {
		return st, nil
	}

	ticket := store.Begin(planner.KindGeocode(city, place))
	loc, err := p.maps.Geocode(ctx, place+", "+city)
	if err != nil {
		return store.State(), err
	}

	return store.Commit(ctx, ticket, planner.AddPlace{
		City: city,
		Place: planner.SelectedPlace{
			ID:          uuid.NewString(),
			Place:       place,
			Description: description,
			Lat:         loc.Lat,
			Lng:         loc.Lng,
		},
	})
}

// TogglePlace removes the place by name when it is selected in city and adds it
// otherwise.
func (p *PlannerService) TogglePlace(ctx context.Context, sessionID, city, place, description string) (planner.State, error) {
	city, place = strings.TrimSpace(city), strings.TrimSpace(place)
	if city == "" || place == "" {
		return planner.State{}, utils.ErrInvalidInput
	}

	store, _, err := p.store(ctx, sessionID)
	if err != nil {
		return planner.State{}, err
	}
	if store.State().HasPlaceNamed(city, place) {
		// Supersede a geocode still in flight for the same place.
		store.Begin(planner.KindGeocode(city, place))
		return store.Dispatch(ctx, planner.RemovePlaceByName{City: city, Name: place}), nil
	}
	return p.AddPlace(ctx, sessionID, city, place, description)
}

func (p *PlannerService) RemovePlace(ctx context.Context, sessionID, placeID string) (planner.State, error) {
	store, _, err := p.store(ctx, sessionID)
	if err != nil {
		return planner.State{}, err
	}

	st := store.State()
	for city, places := range st.SelectedPlacesPerCity {
		for _, sp := range places {
			if sp.ID == placeID {
				return store.Dispatch(ctx, planner.RemovePlace{City: city, ID: placeID}), nil
			}
		}
	}
	return st, utils.ErrPlaceNotFound
}

func (p *PlannerService) RemovePlaceByName(ctx context.Context, sessionID, city, name string) (planner.State, error) {
	city, name = strings.TrimSpace(city), strings.TrimSpace(name)
	if city == "" || name == "" {
		return planner.State{}, utils.ErrInvalidInput
	}

	store, _, err := p.store(ctx, sessionID)
	if err != nil {
		return planner.State{}, err
	}
	st := store.State()
	if !st.HasPlaceNamed(city, name) {
		return st, utils.ErrPlaceNotFound
	}
	store.Begin(planner.KindGeocode(city, name))
	return store.Dispatch(ctx, planner.RemovePlaceByName{City: city, Name: name}), nil
}

func (p *PlannerService) CalculateRoute(ctx context.Context, sessionID string) (planner.State, error) {
	store, _, err := p.store(ctx, sessionID)
	if err != nil {
		return planner.State{}, err
	}
	st := store.State()
	if strings.TrimSpace(st.StartPoint) == "" || strings.TrimSpace(st.EndPoint) == "" {
		return st, utils.ErrRouteEndpointsRequired
	}
	return p.calculate(ctx, store)
}

// calculate takes the ticket before reading the stops, so an edit that lands in
// between marks this request stale.
func (p *PlannerService) calculate(ctx context.Context, store *planner.Store) (planner.State, error) {
	ticket := store.Begin(planner.KindRoute)
	st := store.State()
	route, err := p.routes.CalculateRoute(ctx, st.Itinerary)
	if err != nil {
		return store.State(), err
	}
	return store.Commit(ctx, ticket, planner.RouteCalculated{Route: route})
}

func (p *PlannerService) OptimizeDay(ctx context.Context, sessionID, city string) (planner.State, error) {
	store, _, err := p.store(ctx, sessionID)
	if err != nil {
		return planner.State{}, err
	}
	st := store.State()
	if len(st.PlacesIn(city)) < 2 {
		return st, utils.ErrNotEnoughPlaces
	}

	// Places are read after the ticket so a concurrent edit marks this stale.
	ticket := store.Begin(planner.KindDay(city))
	places := store.State().PlacesIn(city)
	day, err := p.routes.OptimizeDay(ctx, city, places)
	if err != nil {
		return store.State(), err
	}
	return store.Commit(ctx, ticket, planner.DayOptimized{DayRoute: day})
}

func (p *PlannerService) Clear(ctx context.Context, sessionID string) (planner.State, error) {
	return p.dispatch(ctx, sessionID, planner.Clear{})
}
