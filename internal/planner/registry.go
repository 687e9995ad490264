package planner

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Registry keeps one Store per session in memory, hydrating it from storage on
// first use. Idle stores are evicted; their persisted fields survive in the
// repository and only the transient routes are lost. A session evicted with
// nothing but default values is removed from storage as well.
type Registry struct {
	mu         sync.Mutex
	stores     *cache.Cache
	forgetting map[string]chan struct{}
	fields     *Fields
	log        *zap.Logger
}

func NewRegistry(fields *Fields, idleTTL time.Duration, log *zap.Logger) *Registry {
	r := &Registry{
		stores:     cache.New(idleTTL, idleTTL/2+time.Minute),
		forgetting: make(map[string]chan struct{}),
		fields:     fields,
		log:        log,
	}
	r.stores.OnEvicted(func(sessionID string, v interface{}) {
		r.evicted(sessionID, v.(*Store))
	})
	return r
}

// Get returns the session's store. hydrated is true when the store was just
// loaded from storage. Storage is read outside the registry lock so a slow
// session does not hold up the others.
func (r *Registry) Get(ctx context.Context, sessionID string) (*Store, bool) {
	for {
		r.mu.Lock()
		if v, ok := r.stores.Get(sessionID); ok {
			store := v.(*Store)
			r.stores.SetDefault(sessionID, store)
			r.mu.Unlock()
			return store, false
		}
		pending := r.forgetting[sessionID]
		r.mu.Unlock()

		if pending != nil {
			<-pending
			continue
		}

		state := r.fields.Load(ctx, sessionID)

		r.mu.Lock()
		if _, ok := r.stores.Get(sessionID); ok || r.forgetting[sessionID] != nil {
			// Raced with another hydration or an eviction.
			r.mu.Unlock()
			continue
		}
		store := NewStore(sessionID, state, r.fields, r.log)
		r.stores.SetDefault(sessionID, store)
		r.mu.Unlock()

		r.log.Debug("hydrated planner session", zap.String("session_id", sessionID))
		return store, true
	}
}

func (r *Registry) evicted(sessionID string, store *Store) {
	r.mu.Lock()
	if _, back := r.stores.Get(sessionID); back || !store.State().Pristine() {
		r.mu.Unlock()
		return
	}
	done := make(chan struct{})
	r.forgetting[sessionID] = done
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r.fields.Forget(ctx, sessionID)
	r.log.Debug("dropped pristine planner session", zap.String("session_id", sessionID))

	r.mu.Lock()
	delete(r.forgetting, sessionID)
	r.mu.Unlock()
	close(done)
}

func (r *Registry) Len() int {
	return r.stores.ItemCount()
}
