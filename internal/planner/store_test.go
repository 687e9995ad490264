package planner

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"itinera/pkg/utils"
)

func newTestStore(t *testing.T) (*Store, *recordingRepo) {
	t.Helper()
	repo := newRecordingRepo()
	fields := NewFields(repo, zap.NewNop())
	return NewStore(testSession, fields.Load(context.Background(), testSession), fields, zap.NewNop()), repo
}

func TestStore_DispatchPersists(t *testing.T) {
	ctx := context.Background()
	store, repo := newTestStore(t)

	s := store.Dispatch(ctx, SetStartPoint{Value: "Lisbon"})
	assert.Equal(t, "Lisbon", s.StartPoint)

	raw, ok, err := repo.Get(ctx, testSession, KeyStartPoint)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `"Lisbon"`, raw)
}

func TestStore_NewerTicketSupersedesOlder(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	first := store.Begin(KindRoute)
	second := store.Begin(KindRoute)

	_, err := store.Commit(ctx, second, RouteCalculated{Route: Route{Summary: "second"}})
	require.NoError(t, err)

	s, err := store.Commit(ctx, first, RouteCalculated{Route: Route{Summary: "first"}})
	assert.ErrorIs(t, err, utils.ErrStaleResponse)
	require.NotNil(t, s.Route)
	assert.Equal(t, "second", s.Route.Summary)
}

func TestStore_EditingEndpointsSupersedesRoute(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	ticket := store.Begin(KindRoute)
	store.Dispatch(ctx, SetEndPoint{Value: "Faro"})

	_, err := store.Commit(ctx, ticket, RouteCalculated{Route: Route{}})
	assert.ErrorIs(t, err, utils.ErrStaleResponse)
	assert.Nil(t, store.State().Route)
}

func TestStore_KindsAreIndependent(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	lisbon := store.Begin(KindDay("Lisbon"))
	store.Begin(KindDay("Porto"))

	_, err := store.Commit(ctx, lisbon, DayOptimized{DayRoute: DayRoute{City: "Lisbon"}})
	assert.NoError(t, err)
}

func TestStore_ClearDiscardsInFlight(t *testing.T) {
	ctx := context.Background()
	store, repo := newTestStore(t)
	store.Dispatch(ctx, SetStartPoint{Value: "Lisbon"})

	ticket := store.Begin(KindGeocode("Lisbon", "Alfama"))
	s := store.Dispatch(ctx, Clear{})
	assert.Equal(t, DefaultState(), s)

	_, err := store.Commit(ctx, ticket, AddPlace{City: "Lisbon", Place: place("a", "Alfama")})
	assert.ErrorIs(t, err, utils.ErrStaleResponse)
	assert.Empty(t, store.State().SelectedPlacesPerCity)

	raw, _, _ := repo.Get(ctx, testSession, KeyStartPoint)
	assert.Equal(t, `""`, raw)
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.Dispatch(ctx, AddIntermediateCity{City: "c"})
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.State().IntermediateCities, 20)
}

func TestRegistry_HydratesOnce(t *testing.T) {
	ctx := context.Background()
	repo := newRecordingRepo()
	fields := NewFields(repo, zap.NewNop())
	require.NoError(t, repo.Set(ctx, testSession, KeyEndPoint, `"Porto"`))

	reg := NewRegistry(fields, time.Hour, zap.NewNop())

	store, hydrated := reg.Get(ctx, testSession)
	assert.True(t, hydrated)
	assert.Equal(t, "Porto", store.State().EndPoint)

	again, hydrated := reg.Get(ctx, testSession)
	assert.False(t, hydrated)
	assert.Same(t, store, again)

	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_EvictingPristineSessionDeletesRows(t *testing.T) {
	ctx := context.Background()
	repo := newRecordingRepo()
	reg := NewRegistry(NewFields(repo, zap.NewNop()), time.Hour, zap.NewNop())

	store, _ := reg.Get(ctx, testSession)
	store.Dispatch(ctx, SetStartPoint{Value: "Lisbon"})
	store.Dispatch(ctx, Clear{})
	_, ok, _ := repo.Get(ctx, testSession, KeyStartPoint)
	require.True(t, ok)

	reg.stores.Delete(testSession)

	assert.Equal(t, 0, reg.Len())
	for _, key := range PersistedKeys {
		_, ok, err := repo.Get(ctx, testSession, key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}
}

func TestRegistry_EvictingEditedSessionKeepsRows(t *testing.T) {
	ctx := context.Background()
	repo := newRecordingRepo()
	reg := NewRegistry(NewFields(repo, zap.NewNop()), time.Hour, zap.NewNop())

	store, _ := reg.Get(ctx, testSession)
	store.Dispatch(ctx, SetEndPoint{Value: "Porto"})

	reg.stores.Delete(testSession)

	again, hydrated := reg.Get(ctx, testSession)
	assert.True(t, hydrated)
	assert.Equal(t, "Porto", again.State().EndPoint)
}

// blockingRepo holds reads of one session until release is closed.
type blockingRepo struct {
	*recordingRepo
	slowSession string
	entered     chan struct{}
	release     chan struct{}
	once        sync.Once
}

func (r *blockingRepo) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	if sessionID == r.slowSession {
		r.once.Do(func() { close(r.entered) })
		<-r.release
	}
	return r.recordingRepo.Get(ctx, sessionID, key)
}

func TestRegistry_SlowHydrationDoesNotBlockOtherSessions(t *testing.T) {
	ctx := context.Background()
	const otherSession = "9a1b2c3d-4e5f-4a6b-8c7d-0e1f2a3b4c5d"
	repo := &blockingRepo{
		recordingRepo: newRecordingRepo(),
		slowSession:   testSession,
		entered:       make(chan struct{}),
		release:       make(chan struct{}),
	}
	reg := NewRegistry(NewFields(repo, zap.NewNop()), time.Hour, zap.NewNop())

	slow := make(chan *Store)
	go func() {
		store, _ := reg.Get(ctx, testSession)
		slow <- store
	}()
	<-repo.entered

	done := make(chan struct{})
	go func() {
		reg.Get(ctx, otherSession)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hydrating one session blocked another")
	}

	close(repo.release)
	store := <-slow
	assert.Equal(t, testSession, store.SessionID())
	assert.Equal(t, 2, reg.Len())
}

func TestKindLabel(t *testing.T) {
	assert.Equal(t, "route", kindLabel(KindRoute))
	assert.Equal(t, "day", kindLabel(KindDay("Lisbon")))
	assert.Equal(t, "geocode", kindLabel(KindGeocode("Lisbon", "Alfama")))
}
