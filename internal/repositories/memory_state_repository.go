package repositories

import (
	"context"

	mem "itinera/pkg/memcache"
)

type memoryStateRepository struct {
	store mem.SessionStore
}

func NewMemoryStateRepository(store mem.SessionStore) PlannerStateRepository {
	return &memoryStateRepository{store: store}
}

func (r *memoryStateRepository) Get(_ context.Context, sessionID, key string) (string, bool, error) {
	v, ok := r.store.Get(sessionID, key)
	return v, ok, nil
}

func (r *memoryStateRepository) Set(_ context.Context, sessionID, key, value string) error {
	r.store.Set(sessionID, key, value)
	return nil
}

func (r *memoryStateRepository) DeleteSession(_ context.Context, sessionID string) error {
	r.store.Drop(sessionID)
	return nil
}
