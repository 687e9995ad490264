package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func place(id, name string) SelectedPlace {
	return SelectedPlace{ID: id, Place: name, Description: name + " desc", Lat: 1, Lng: 2}
}

func TestReduce_AddAndRemovePlace(t *testing.T) {
	s := DefaultState()
	s = Reduce(s, AddPlace{City: "Lisbon", Place: place("a", "Belem Tower")})
	s = Reduce(s, AddPlace{City: "Lisbon", Place: place("b", "Alfama")})
	s = Reduce(s, AddPlace{City: "Porto", Place: place("c", "Belem Tower")})

	require.Len(t, s.PlacesIn("Lisbon"), 2)

	s = Reduce(s, RemovePlace{City: "Lisbon", ID: "a"})
	assert.Equal(t, []SelectedPlace{place("b", "Alfama")}, s.PlacesIn("Lisbon"))
	assert.Len(t, s.PlacesIn("Porto"), 1, "other cities are untouched")
}

func TestReduce_RemovePlaceByNameOnlyInCity(t *testing.T) {
	s := DefaultState()
	s = Reduce(s, AddPlace{City: "Lisbon", Place: place("a", "Market")})
	s = Reduce(s, AddPlace{City: "Porto", Place: place("b", "Market")})

	s = Reduce(s, RemovePlaceByName{City: "Lisbon", Name: "Market"})

	assert.Empty(t, s.PlacesIn("Lisbon"))
	assert.True(t, s.HasPlaceNamed("Porto", "Market"))
}

func TestReduce_RemoveFromUnknownCityIsNoop(t *testing.T) {
	s := DefaultState()
	next := Reduce(s, RemovePlace{City: "Nowhere", ID: "x"})

	_, ok := next.SelectedPlacesPerCity["Nowhere"]
	assert.False(t, ok)
}

func TestReduce_PlaceChangeDropsDayRoute(t *testing.T) {
	s := DefaultState()
	s = Reduce(s, AddPlace{City: "Lisbon", Place: place("a", "A")})
	s = Reduce(s, DayOptimized{DayRoute: DayRoute{City: "Lisbon"}})
	require.Contains(t, s.DayRoutes, "Lisbon")

	s = Reduce(s, AddPlace{City: "Lisbon", Place: place("b", "B")})
	assert.NotContains(t, s.DayRoutes, "Lisbon")
}

func TestReduce_IntermediateCities(t *testing.T) {
	s := DefaultState()
	s = Reduce(s, SetIntermediateCities{Cities: []string{"Coimbra", "Aveiro"}})
	s = Reduce(s, AddIntermediateCity{City: "Braga"})
	assert.Equal(t, []string{"Coimbra", "Aveiro", "Braga"}, s.IntermediateCities)

	s = Reduce(s, RemoveIntermediateCity{Index: 1})
	assert.Equal(t, []string{"Coimbra", "Braga"}, s.IntermediateCities)

	s = Reduce(s, RemoveIntermediateCity{Index: 5})
	assert.Equal(t, []string{"Coimbra", "Braga"}, s.IntermediateCities)
}

func TestReduce_SelectCity(t *testing.T) {
	city := "Lisbon"
	s := Reduce(DefaultState(), SelectCity{City: &city})
	require.NotNil(t, s.SelectedCity)
	assert.Equal(t, "Lisbon", *s.SelectedCity)

	city = "Porto"
	assert.Equal(t, "Lisbon", *s.SelectedCity, "state does not alias the action")

	s = Reduce(s, SelectCity{City: nil})
	assert.Nil(t, s.SelectedCity)
}

func TestReduce_ClearRestoresDefaults(t *testing.T) {
	s := DefaultState()
	s = Reduce(s, SetStartPoint{Value: "Lisbon"})
	s = Reduce(s, SetEndPoint{Value: "Porto"})
	s = Reduce(s, SetSidebarTab{Value: "explore"})
	s = Reduce(s, AddPlace{City: "Lisbon", Place: place("a", "A")})
	s = Reduce(s, RouteCalculated{Route: Route{Summary: "A1"}})

	s = Reduce(s, Clear{})

	assert.Equal(t, DefaultState(), s)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	s := DefaultState()
	s = Reduce(s, SetIntermediateCities{Cities: []string{"A", "B", "C"}})
	s = Reduce(s, AddPlace{City: "A", Place: place("1", "one")})

	_ = Reduce(s, RemoveIntermediateCity{Index: 0})
	_ = Reduce(s, AddPlace{City: "A", Place: place("2", "two")})
	_ = Reduce(s, RemovePlace{City: "A", ID: "1"})

	assert.Equal(t, []string{"A", "B", "C"}, s.IntermediateCities)
	assert.Equal(t, []SelectedPlace{place("1", "one")}, s.SelectedPlacesPerCity["A"])
}

func TestItineraryStops(t *testing.T) {
	it := Itinerary{StartPoint: "Lisbon", EndPoint: "Porto", IntermediateCities: []string{"Coimbra"}}
	assert.Equal(t, []string{"Lisbon", "Coimbra", "Porto"}, it.Stops())
}
