package memcache_fx

import (
	"go.uber.org/fx"
	mem "itinera/pkg/memcache"
)

var Module = fx.Provide(provideSessionStore)

func provideSessionStore() mem.SessionStore {
	return mem.NewSessionValues()
}
