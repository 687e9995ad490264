package planner

// Action is one discrete change to a session's state. The set is closed:
// Reduce handles every type declared in this file.
type Action interface {
	actionName() string
}

type SetStartPoint struct{ Value string }

type SetEndPoint struct{ Value string }

type SetIntermediateCities struct{ Cities []string }

type AddIntermediateCity struct{ City string }

// RemoveIntermediateCity removes the city at Index; out of range is a no-op.
type RemoveIntermediateCity struct{ Index int }

type SetSidebarTab struct{ Value string }

// SelectCity sets the city being explored; nil deselects.
type SelectCity struct{ City *string }

type AddPlace struct {
	City  string
	Place SelectedPlace
}

// RemovePlace removes the place with this ID from City.
type RemovePlace struct {
	City string
	ID   string
}

// RemovePlaceByName removes every place in City whose name equals Name.
type RemovePlaceByName struct {
	City string
	Name string
}

type SetMapView struct{ View MapView }

type RouteCalculated struct{ Route Route }

type DayOptimized struct{ DayRoute DayRoute }

// Clear resets the session to DefaultState.
type Clear struct{}

func (SetStartPoint) actionName() string          { return "set_start_point" }
func (SetEndPoint) actionName() string            { return "set_end_point" }
func (SetIntermediateCities) actionName() string  { return "set_intermediate_cities" }
func (AddIntermediateCity) actionName() string    { return "add_intermediate_city" }
func (RemoveIntermediateCity) actionName() string { return "remove_intermediate_city" }
func (SetSidebarTab) actionName() string          { return "set_sidebar_tab" }
func (SelectCity) actionName() string             { return "select_city" }
func (AddPlace) actionName() string               { return "add_place" }
func (RemovePlace) actionName() string            { return "remove_place" }
func (RemovePlaceByName) actionName() string      { return "remove_place_by_name" }
func (SetMapView) actionName() string             { return "set_map_view" }
func (RouteCalculated) actionName() string        { return "route_calculated" }
func (DayOptimized) actionName() string           { return "day_optimized" }
func (Clear) actionName() string                  { return "clear" }

// Name returns a stable identifier for logging.
func Name(a Action) string {
	if a == nil {
		return "nil"
	}
	return a.actionName()
}

// superseded returns the async kinds whose in-flight requests a makes stale:
// changing the stops invalidates the route, changing a city's places
// invalidates that city's day route.
func superseded(a Action) []string {
	switch act := a.(type) {
	case SetStartPoint, SetEndPoint, SetIntermediateCities, AddIntermediateCity, RemoveIntermediateCity:
		return []string{KindRoute}
	case AddPlace:
		return []string{KindDay(act.City)}
	case RemovePlace:
		return []string{KindDay(act.City)}
	case RemovePlaceByName:
		return []string{KindDay(act.City)}
	}
	return nil
}
