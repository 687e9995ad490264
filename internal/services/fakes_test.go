package services

import (
	"context"
	"time"

	"googlemaps.github.io/maps"
	"itinera/internal/models/response_models"
	"itinera/internal/planner"
)

type fakeMapsClient struct {
	DirectionsFn   func(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
	GeocodeFn      func(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
	AutocompleteFn func(ctx context.Context, r *maps.PlaceAutocompleteRequest) (maps.AutocompleteResponse, error)
}

func (f *fakeMapsClient) Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error) {
	return f.DirectionsFn(ctx, r)
}

func (f *fakeMapsClient) Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
	return f.GeocodeFn(ctx, r)
}

func (f *fakeMapsClient) PlaceAutocomplete(ctx context.Context, r *maps.PlaceAutocompleteRequest) (maps.AutocompleteResponse, error) {
	return f.AutocompleteFn(ctx, r)
}

type fakeMapsService struct {
	DirectionsFn func(ctx context.Context, q DirectionsQuery) (maps.Route, error)
	GeocodeFn    func(ctx context.Context, address string) (planner.LatLng, error)
}

func (f *fakeMapsService) Directions(ctx context.Context, q DirectionsQuery) (maps.Route, error) {
	return f.DirectionsFn(ctx, q)
}

func (f *fakeMapsService) Geocode(ctx context.Context, address string) (planner.LatLng, error) {
	return f.GeocodeFn(ctx, address)
}

func (f *fakeMapsService) AutocompleteCities(context.Context, string) ([]response_models.CityPrediction, error) {
	return nil, nil
}

type fakeRouteService struct {
	CalculateFn func(ctx context.Context, it planner.Itinerary) (planner.Route, error)
	OptimizeFn  func(ctx context.Context, city string, places []planner.SelectedPlace) (planner.DayRoute, error)
}

func (f *fakeRouteService) CalculateRoute(ctx context.Context, it planner.Itinerary) (planner.Route, error) {
	return f.CalculateFn(ctx, it)
}

func (f *fakeRouteService) OptimizeDay(ctx context.Context, city string, places []planner.SelectedPlace) (planner.DayRoute, error) {
	return f.OptimizeFn(ctx, city, places)
}

type fakeCompletionClient struct {
	calls int
	reply string
	err   error
}

func (f *fakeCompletionClient) Provider() string { return "fake" }

func (f *fakeCompletionClient) CompleteJSON(context.Context, string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func leg(meters int, seconds int) *maps.Leg {
	l := &maps.Leg{}
	l.Distance.Meters = meters
	l.Duration = time.Duration(seconds) * time.Second
	return l
}
