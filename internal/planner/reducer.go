package planner

// Reduce returns the state that results from applying a to s. It never
// mutates s.
func Reduce(s State, a Action) State {
	next := s.clone()

	switch act := a.(type) {
	case SetStartPoint:
		next.StartPoint = act.Value
	case SetEndPoint:
		next.EndPoint = act.Value
	case SetIntermediateCities:
		next.IntermediateCities = append([]string{}, act.Cities...)
	case AddIntermediateCity:
		next.IntermediateCities = append(next.IntermediateCities, act.City)
	case RemoveIntermediateCity:
		if act.Index < 0 || act.Index >= len(next.IntermediateCities) {
			return next
		}
		next.IntermediateCities = append(next.IntermediateCities[:act.Index], next.IntermediateCities[act.Index+1:]...)
	case SetSidebarTab:
		next.SidebarTab = act.Value
	case SelectCity:
		if act.City == nil {
			next.SelectedCity = nil
		} else {
			city := *act.City
			next.SelectedCity = &city
		}
	case AddPlace:
		next.SelectedPlacesPerCity[act.City] = append(next.SelectedPlacesPerCity[act.City], act.Place)
		delete(next.DayRoutes, act.City)
	case RemovePlace:
		places, ok := next.SelectedPlacesPerCity[act.City]
		if !ok {
			return next
		}
		next.SelectedPlacesPerCity[act.City] = filterPlaces(places, func(p SelectedPlace) bool { return p.ID != act.ID })
		delete(next.DayRoutes, act.City)
	case RemovePlaceByName:
		places, ok := next.SelectedPlacesPerCity[act.City]
		if !ok {
			return next
		}
		next.SelectedPlacesPerCity[act.City] = filterPlaces(places, func(p SelectedPlace) bool { return p.Place != act.Name })
		delete(next.DayRoutes, act.City)
	case SetMapView:
		next.MapView = act.View
	case RouteCalculated:
		route := act.Route
		next.Route = &route
	case DayOptimized:
		next.DayRoutes[act.DayRoute.City] = act.DayRoute
	case Clear:
		return DefaultState()
	}

	return next
}

func filterPlaces(places []SelectedPlace, keep func(SelectedPlace) bool) []SelectedPlace {
	out := make([]SelectedPlace, 0, len(places))
	for _, p := range places {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
