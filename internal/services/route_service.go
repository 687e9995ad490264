package services

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"
	"itinera/internal/planner"
	"itinera/pkg/utils"
)

type RouteServiceInterface interface {
	// CalculateRoute returns the optimized driving route from start to end
	// through the intermediate cities.
	CalculateRoute(ctx context.Context, it planner.Itinerary) (planner.Route, error)
	// OptimizeDay orders the places of one city, keeping the first and last
	// fixed.
	OptimizeDay(ctx context.Context, city string, places []planner.SelectedPlace) (planner.DayRoute, error)
}

type RouteService struct {
	maps MapsServiceInterface
}

func NewRouteService(mapsService MapsServiceInterface) RouteServiceInterface {
	return &RouteService{maps: mapsService}
}

func (r *RouteService) CalculateRoute(ctx context.Context, it planner.Itinerary) (planner.Route, error) {
	start := strings.TrimSpace(it.StartPoint)
	end := strings.TrimSpace(it.EndPoint)
	if start == "" || end == "" {
		return planner.Route{}, utils.ErrRouteEndpointsRequired
	}

	waypoints := make([]string, 0, len(it.IntermediateCities))
	for _, c := range it.IntermediateCities {
		if c = strings.TrimSpace(c); c != "" {
			waypoints = append(waypoints, c)
		}
	}

	route, err := r.maps.Directions(ctx, DirectionsQuery{
		Origin:      start,
		Destination: end,
		Waypoints:   waypoints,
		Optimize:    true,
	})
	if err != nil {
		return planner.Route{}, err
	}

	out := toPlannerRoute(route)
	out.OrderedStops = append([]string{start}, applyOrder(waypoints, out.WaypointOrder)...)
	out.OrderedStops = append(out.OrderedStops, end)
	return out, nil
}

func (r *RouteService) OptimizeDay(ctx context.Context, city string, places []planner.SelectedPlace) (planner.DayRoute, error) {
	if len(places) < 2 {
		return planner.DayRoute{}, utils.ErrNotEnoughPlaces
	}

	first, last := places[0], places[len(places)-1]
	middle := places[1 : len(places)-1]

	waypoints := make([]string, 0, len(middle))
	for _, p := range middle {
		waypoints = append(waypoints, latLngString(p.Lat, p.Lng))
	}

	route, err := r.maps.Directions(ctx, DirectionsQuery{
		Origin:      latLngString(first.Lat, first.Lng),
		Destination: latLngString(last.Lat, last.Lng),
		Waypoints:   waypoints,
		Optimize:    true,
	})
	if err != nil {
		return planner.DayRoute{}, err
	}

	out := toPlannerRoute(route)
	ordered := make([]planner.SelectedPlace, 0, len(places))
	ordered = append(ordered, first)
	ordered = append(ordered, applyOrder(middle, out.WaypointOrder)...)
	ordered = append(ordered, last)

	names := make([]string, 0, len(ordered))
	for _, p := range ordered {
		names = append(names, p.Place)
	}
	out.OrderedStops = names

	return planner.DayRoute{City: city, Route: out, OrderedPlaces: ordered}, nil
}

func latLngString(lat, lng float64) string {
	return fmt.Sprintf("%f,%f", lat, lng)
}

// applyOrder permutes items by order. An order that is not a permutation of
// the indices leaves items in entry order.
func applyOrder[T any](items []T, order []int) []T {
	out := make([]T, 0, len(items))
	if len(order) != len(items) {
		return append(out, items...)
	}
	seen := make([]bool, len(items))
	for _, i := range order {
		if i < 0 || i >= len(items) || seen[i] {
			return append(out[:0], items...)
		}
		seen[i] = true
		out = append(out, items[i])
	}
	return out
}

func toPlannerRoute(r maps.Route) planner.Route {
	out := planner.Route{
		Summary:          r.Summary,
		Legs:             make([]planner.RouteLeg, 0, len(r.Legs)),
		WaypointOrder:    append([]int{}, r.WaypointOrder...),
		OverviewPolyline: r.OverviewPolyline.Points,
		Warnings:         r.Warnings,
	}
	for _, leg := range r.Legs {
		if leg == nil {
			continue
		}
		secs := int(leg.Duration.Seconds())
		out.Legs = append(out.Legs, planner.RouteLeg{
			StartAddress:    leg.StartAddress,
			EndAddress:      leg.EndAddress,
			Start:           planner.LatLng{Lat: leg.StartLocation.Lat, Lng: leg.StartLocation.Lng},
			End:             planner.LatLng{Lat: leg.EndLocation.Lat, Lng: leg.EndLocation.Lng},
			DistanceMeters:  leg.Distance.Meters,
			DurationSeconds: secs,
		})
		out.DistanceMeters += leg.Distance.Meters
		out.DurationSeconds += secs
	}
	return out
}
