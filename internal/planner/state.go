// Package planner holds the per-session itinerary state: a single State value,
// a closed set of actions, a pure reducer, and a Store that persists the
// durable fields of the state after every change.
package planner

// Storage keys for the persisted fields of State.
const (
	KeyStartPoint            = "startPoint"
	KeyEndPoint              = "endPoint"
	KeyIntermediateCities    = "intermediateCities"
	KeySidebarTab            = "sidebarTab"
	KeySelectedCity          = "selectedCity"
	KeySelectedPlacesPerCity = "selectedPlacesPerCity"
	KeyMapView               = "mapView"
)

// PersistedKeys lists every key written to the state repository.
var PersistedKeys = []string{
	KeyStartPoint,
	KeyEndPoint,
	KeyIntermediateCities,
	KeySidebarTab,
	KeySelectedCity,
	KeySelectedPlacesPerCity,
	KeyMapView,
}

const DefaultSidebarTab = "route"

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type MapView struct {
	Center LatLng `json:"center"`
	Zoom   int    `json:"zoom"`
}

func DefaultMapView() MapView {
	return MapView{Center: LatLng{Lat: -3.745, Lng: -38.523}, Zoom: 10}
}

// SelectedPlace is a point of interest chosen for a city. ID is assigned when
// the place is added and is the identity used for removal.
type SelectedPlace struct {
	ID          string  `json:"id"`
	Place       string  `json:"place"`
	Description string  `json:"description"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

// Itinerary is the user-entered part of the plan.
type Itinerary struct {
	StartPoint         string   `json:"startPoint"`
	EndPoint           string   `json:"endPoint"`
	IntermediateCities []string `json:"intermediateCities"`
	SelectedCity       *string  `json:"selectedCity"`
}

// Stops returns the route stops in entry order: start, intermediates, end.
func (i Itinerary) Stops() []string {
	stops := make([]string, 0, len(i.IntermediateCities)+2)
	stops = append(stops, i.StartPoint)
	stops = append(stops, i.IntermediateCities...)
	stops = append(stops, i.EndPoint)
	return stops
}

type RouteLeg struct {
	StartAddress    string `json:"startAddress"`
	EndAddress      string `json:"endAddress"`
	Start           LatLng `json:"start"`
	End             LatLng `json:"end"`
	DistanceMeters  int    `json:"distanceMeters"`
	DurationSeconds int    `json:"durationSeconds"`
}

// Route is the provider's route reduced to what the client renders.
// WaypointOrder is the provider's optimized permutation of the requested
// waypoints; OrderedStops applies it to the stop names.
type Route struct {
	Summary          string     `json:"summary"`
	Legs             []RouteLeg `json:"legs"`
	WaypointOrder    []int      `json:"waypointOrder"`
	OrderedStops     []string   `json:"orderedStops"`
	OverviewPolyline string     `json:"overviewPolyline"`
	DistanceMeters   int        `json:"distanceMeters"`
	DurationSeconds  int        `json:"durationSeconds"`
	Warnings         []string   `json:"warnings,omitempty"`
}

// DayRoute is an optimized path among the selected places of one city.
type DayRoute struct {
	City          string          `json:"city"`
	Route         Route           `json:"route"`
	OrderedPlaces []SelectedPlace `json:"orderedPlaces"`
}

// State is everything a planning session holds. Route and DayRoutes are
// transient and never persisted.
type State struct {
	Itinerary
	SidebarTab            string                     `json:"sidebarTab"`
	SelectedPlacesPerCity map[string][]SelectedPlace `json:"selectedPlacesPerCity"`
	MapView               MapView                    `json:"mapView"`

	Route     *Route              `json:"route"`
	DayRoutes map[string]DayRoute `json:"dayRoutes"`
}

// DefaultState is the state of a fresh session and the result of Clear.
func DefaultState() State {
	return State{
		Itinerary: Itinerary{
			IntermediateCities: []string{},
		},
		SidebarTab:            DefaultSidebarTab,
		SelectedPlacesPerCity: map[string][]SelectedPlace{},
		MapView:               DefaultMapView(),
		DayRoutes:             map[string]DayRoute{},
	}
}

// PlacesIn returns the selected places of city, never nil.
func (s State) PlacesIn(city string) []SelectedPlace {
	if places, ok := s.SelectedPlacesPerCity[city]; ok {
		return places
	}
	return []SelectedPlace{}
}

// HasPlaceNamed reports whether city already has a place with this exact name.
func (s State) HasPlaceNamed(city, name string) bool {
	for _, p := range s.SelectedPlacesPerCity[city] {
		if p.Place == name {
			return true
		}
	}
	return false
}

// Pristine reports whether every persisted part of s holds its default value.
func (s State) Pristine() bool {
	if s.StartPoint != "" || s.EndPoint != "" || len(s.IntermediateCities) > 0 || s.SelectedCity != nil {
		return false
	}
	if s.SidebarTab != DefaultSidebarTab || s.MapView != DefaultMapView() {
		return false
	}
	for _, places := range s.SelectedPlacesPerCity {
		if len(places) > 0 {
			return false
		}
	}
	return true
}

// clone copies every slice and map so the reducer never aliases its input.
func (s State) clone() State {
	out := s
	out.IntermediateCities = append([]string{}, s.IntermediateCities...)
	if s.SelectedCity != nil {
		city := *s.SelectedCity
		out.SelectedCity = &city
	}
	out.SelectedPlacesPerCity = make(map[string][]SelectedPlace, len(s.SelectedPlacesPerCity))
	for city, places := range s.SelectedPlacesPerCity {
		out.SelectedPlacesPerCity[city] = append([]SelectedPlace{}, places...)
	}
	out.DayRoutes = make(map[string]DayRoute, len(s.DayRoutes))
	for city, dr := range s.DayRoutes {
		out.DayRoutes[city] = dr
	}
	return out
}
