package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"itinera/internal/planner"
	"itinera/internal/repositories"
	mem "itinera/pkg/memcache"
	"itinera/pkg/utils"
)

const sessionA = "0d8f8c4e-7a8e-4b8f-9d4a-6f1e2b3c4d5e"

type plannerFixture struct {
	svc    PlannerServiceInterface
	maps   *fakeMapsService
	routes *fakeRouteService
	repo   repositories.PlannerStateRepository
}

func newPlannerFixture(t *testing.T) *plannerFixture {
	t.Helper()
	repo := repositories.NewMemoryStateRepository(mem.NewSessionValues())
	registry := planner.NewRegistry(planner.NewFields(repo, zap.NewNop()), time.Hour, zap.NewNop())
	f := &plannerFixture{
		maps: &fakeMapsService{
			GeocodeFn: func(context.Context, string) (planner.LatLng, error) {
				return planner.LatLng{Lat: 38.7, Lng: -9.1}, nil
			},
		},
		routes: &fakeRouteService{
			CalculateFn: func(context.Context, planner.Itinerary) (planner.Route, error) {
				return planner.Route{Summary: "ok"}, nil
			},
		},
		repo: repo,
	}
	f.svc = NewPlannerService(registry, f.maps, f.routes, zap.NewNop())
	return f
}

func TestPlannerService_InvalidSession(t *testing.T) {
	f := newPlannerFixture(t)

	_, err := f.svc.GetState(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, utils.ErrInvalidSession)
}

func TestPlannerService_FreshSessionDefaults(t *testing.T) {
	f := newPlannerFixture(t)

	st, err := f.svc.GetState(context.Background(), sessionA)

	require.NoError(t, err)
	assert.Equal(t, planner.DefaultSidebarTab, st.SidebarTab)
	assert.Equal(t, planner.DefaultMapView(), st.MapView)
	assert.Nil(t, st.Route)
}

func TestPlannerService_AddPlaceGeocodes(t *testing.T) {
	ctx := context.Background()
	f := newPlannerFixture(t)
	var address string
	f.maps.GeocodeFn = func(_ context.Context, a string) (planner.LatLng, error) {
		address = a
		return planner.LatLng{Lat: 38.7, Lng: -9.1}, nil
	}

	st, err := f.svc.AddPlace(ctx, sessionA, "Lisbon", "Alfama", "Old quarter")

	require.NoError(t, err)
	assert.Equal(t, "Alfama, Lisbon", address)
	places := st.PlacesIn("Lisbon")
	require.Len(t, places, 1)
	assert.NotEmpty(t, places[0].ID)
	assert.Equal(t, 38.7, places[0].Lat)
	assert.Equal(t, "Old quarter", places[0].Description)

	raw, ok, err := f.repo.Get(ctx, sessionA, planner.KeySelectedPlacesPerCity)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, "Alfama")
}

func TestPlannerService_AddPlaceGeocodeFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newPlannerFixture(t)
	f.maps.GeocodeFn = func(context.Context, string) (planner.LatLng, error) {
		return planner.LatLng{}, utils.ErrGeocodeFailed
	}

	st, err := f.svc.AddPlace(ctx, sessionA, "Lisbon", "Atlantis", "")

	assert.ErrorIs(t, err, utils.ErrGeocodeFailed)
	assert.Empty(t, st.PlacesIn("Lisbon"))
}

func TestPlannerService_TogglePlace(t *testing.T) {
	ctx := context.Background()
	f := newPlannerFixture(t)

	st, err := f.svc.TogglePlace(ctx, sessionA, "Lisbon", "Alfama", "")
	require.NoError(t, err)
	require.Len(t, st.PlacesIn("Lisbon"), 1)

	st, err = f.svc.TogglePlace(ctx, sessionA, "Lisbon", "Alfama", "")
	require.NoError(t, err)
	assert.Empty(t, st.PlacesIn("Lisbon"))
}

func TestPlannerService_RemovePlaceByID(t *testing.T) {
	ctx := context.Background()
	f := newPlannerFixture(t)

	st, err := f.svc.AddPlace(ctx, sessionA, "Lisbon", "Alfama", "")
	require.NoError(t, err)
	id := st.PlacesIn("Lisbon")[0].ID

	_, err = f.svc.RemovePlace(ctx, sessionA, "missing")
	assert.ErrorIs(t, err, utils.ErrPlaceNotFound)

	st, err = f.svc.RemovePlace(ctx, sessionA, id)
	require.NoError(t, err)
	assert.Empty(t, st.PlacesIn("Lisbon"))
}

func TestPlannerService_CalculateRouteRequiresEndpoints(t *testing.T) {
	ctx := context.Background()
	f := newPlannerFixture(t)
	called := false
	f.routes.CalculateFn = func(context.Context, planner.Itinerary) (planner.Route, error) {
		called = true
		return planner.Route{}, nil
	}

	_, err := f.svc.SetEndPoint(ctx, sessionA, "Toronto")
	require.NoError(t, err)
	_, err = f.svc.CalculateRoute(ctx, sessionA)

	assert.ErrorIs(t, err, utils.ErrRouteEndpointsRequired)
	assert.False(t, called)
}

func TestPlannerService_CalculateRouteFailureKeepsPriorRoute(t *testing.T) {
	ctx := context.Background()
	f := newPlannerFixture(t)
	_, _ = f.svc.SetStartPoint(ctx, sessionA, "Boston")
	_, _ = f.svc.SetEndPoint(ctx, sessionA, "Chicago")

	st, err := f.svc.CalculateRoute(ctx, sessionA)
	require.NoError(t, err)
	require.NotNil(t, st.Route)

	f.routes.CalculateFn = func(context.Context, planner.Itinerary) (planner.Route, error) {
		return planner.Route{}, utils.ErrRouteUnavailable
	}
	st, err = f.svc.CalculateRoute(ctx, sessionA)
	assert.ErrorIs(t, err, utils.ErrRouteUnavailable)
	require.NotNil(t, st.Route)
	assert.Equal(t, "ok", st.Route.Summary)
}

func TestPlannerService_SupersededRouteIsDiscarded(t *testing.T) {
	ctx := context.Background()
	f := newPlannerFixture(t)
	_, _ = f.svc.SetStartPoint(ctx, sessionA, "Boston")
	_, _ = f.svc.SetEndPoint(ctx, sessionA, "Chicago")

	f.routes.CalculateFn = func(ctx context.Context, it planner.Itinerary) (planner.Route, error) {
		// The user edits the destination while the request is in flight.
		_, err := f.svc.SetEndPoint(ctx, sessionA, "Denver")
		require.NoError(t, err)
		return planner.Route{Summary: "to " + it.EndPoint}, nil
	}

	st, err := f.svc.CalculateRoute(ctx, sessionA)

	assert.ErrorIs(t, err, utils.ErrStaleResponse)
	assert.Nil(t, st.Route)
	assert.Equal(t, "Denver", st.EndPoint)
}

func TestPlannerService_OptimizeDay(t *testing.T) {
	ctx := context.Background()
	f := newPlannerFixture(t)
	f.routes.OptimizeFn = func(_ context.Context, city string, places []planner.SelectedPlace) (planner.DayRoute, error) {
		return planner.DayRoute{City: city, OrderedPlaces: places}, nil
	}

	_, err := f.svc.OptimizeDay(ctx, sessionA, "Lisbon")
	assert.ErrorIs(t, err, utils.ErrNotEnoughPlaces)

	_, err = f.svc.AddPlace(ctx, sessionA, "Lisbon", "Alfama", "")
	require.NoError(t, err)
	_, err = f.svc.OptimizeDay(ctx, sessionA, "Lisbon")
	assert.ErrorIs(t, err, utils.ErrNotEnoughPlaces)

	_, err = f.svc.AddPlace(ctx, sessionA, "Lisbon", "Belem", "")
	require.NoError(t, err)
	st, err := f.svc.OptimizeDay(ctx, sessionA, "Lisbon")
	require.NoError(t, err)
	assert.Len(t, st.DayRoutes["Lisbon"].OrderedPlaces, 2)
}

func TestPlannerService_OptimizeDayAfterPlacesRemoved(t *testing.T) {
	ctx := context.Background()
	f := newPlannerFixture(t)

	_, err := f.svc.TogglePlace(ctx, sessionA, "Lisbon", "Alfama", "")
	require.NoError(t, err)
	st, err := f.svc.TogglePlace(ctx, sessionA, "Lisbon", "Alfama", "")
	require.NoError(t, err)
	require.Empty(t, st.PlacesIn("Lisbon"))

	_, err = f.svc.OptimizeDay(ctx, sessionA, "Lisbon")
	assert.ErrorIs(t, err, utils.ErrNotEnoughPlaces)
}

func TestPlannerService_ClearResetsPersistedFields(t *testing.T) {
	ctx := context.Background()
	f := newPlannerFixture(t)
	_, _ = f.svc.SetStartPoint(ctx, sessionA, "Lisbon")
	_, _ = f.svc.SetSidebarTab(ctx, sessionA, "explore")
	_, _ = f.svc.AddPlace(ctx, sessionA, "Lisbon", "Alfama", "")

	st, err := f.svc.Clear(ctx, sessionA)
	require.NoError(t, err)
	assert.Equal(t, planner.DefaultState(), st)

	for key, want := range map[string]string{
		planner.KeyStartPoint:            `""`,
		planner.KeySidebarTab:            `"route"`,
		planner.KeySelectedPlacesPerCity: `{}`,
		planner.KeyIntermediateCities:    `[]`,
		planner.KeySelectedCity:          `null`,
	} {
		raw, ok, err := f.repo.Get(ctx, sessionA, key)
		require.NoError(t, err)
		require.True(t, ok, key)
		assert.Equal(t, want, raw, key)
	}
}

func TestPlannerService_HydrationRestoresRoute(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryStateRepository(mem.NewSessionValues())
	require.NoError(t, repo.Set(ctx, sessionA, planner.KeyStartPoint, `"Boston"`))
	require.NoError(t, repo.Set(ctx, sessionA, planner.KeyEndPoint, `"Chicago"`))

	registry := planner.NewRegistry(planner.NewFields(repo, zap.NewNop()), time.Hour, zap.NewNop())
	routes := &fakeRouteService{
		CalculateFn: func(_ context.Context, it planner.Itinerary) (planner.Route, error) {
			return planner.Route{OrderedStops: it.Stops()}, nil
		},
	}
	svc := NewPlannerService(registry, &fakeMapsService{}, routes, zap.NewNop())

	st, err := svc.GetState(ctx, sessionA)

	require.NoError(t, err)
	require.NotNil(t, st.Route)
	assert.Equal(t, []string{"Boston", "Chicago"}, st.Route.OrderedStops)
}

func TestPlannerService_HydrationRouteFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryStateRepository(mem.NewSessionValues())
	require.NoError(t, repo.Set(ctx, sessionA, planner.KeyStartPoint, `"Boston"`))
	require.NoError(t, repo.Set(ctx, sessionA, planner.KeyEndPoint, `"Chicago"`))

	registry := planner.NewRegistry(planner.NewFields(repo, zap.NewNop()), time.Hour, zap.NewNop())
	routes := &fakeRouteService{
		CalculateFn: func(context.Context, planner.Itinerary) (planner.Route, error) {
			return planner.Route{}, errors.New("boom")
		},
	}
	svc := NewPlannerService(registry, &fakeMapsService{}, routes, zap.NewNop())

	st, err := svc.GetState(ctx, sessionA)

	require.NoError(t, err)
	assert.Nil(t, st.Route)
	assert.Equal(t, "Boston", st.StartPoint)
}

func newHydratingFixture(t *testing.T) (PlannerServiceInterface, *int) {
	t.Helper()
	ctx := context.Background()
	repo := repositories.NewMemoryStateRepository(mem.NewSessionValues())
	require.NoError(t, repo.Set(ctx, sessionA, planner.KeyStartPoint, `"Boston"`))
	require.NoError(t, repo.Set(ctx, sessionA, planner.KeyEndPoint, `"Chicago"`))

	calls := 0
	routes := &fakeRouteService{
		CalculateFn: func(_ context.Context, it planner.Itinerary) (planner.Route, error) {
			calls++
			return planner.Route{OrderedStops: it.Stops()}, nil
		},
	}
	registry := planner.NewRegistry(planner.NewFields(repo, zap.NewNop()), time.Hour, zap.NewNop())
	return NewPlannerService(registry, &fakeMapsService{}, routes, zap.NewNop()), &calls
}

func TestPlannerService_HydratedCalculateRouteCallsProviderOnce(t *testing.T) {
	svc, calls := newHydratingFixture(t)

	st, err := svc.CalculateRoute(context.Background(), sessionA)

	require.NoError(t, err)
	require.NotNil(t, st.Route)
	assert.Equal(t, 1, *calls)
}

func TestPlannerService_HydratedMutationsSkipRouteRestore(t *testing.T) {
	ctx := context.Background()
	svc, calls := newHydratingFixture(t)

	st, err := svc.Clear(ctx, sessionA)
	require.NoError(t, err)
	assert.Equal(t, "", st.StartPoint)
	assert.Equal(t, 0, *calls)

	svc, calls = newHydratingFixture(t)
	_, err = svc.SetSidebarTab(ctx, sessionA, "explore")
	require.NoError(t, err)
	assert.Equal(t, 0, *calls)
}
