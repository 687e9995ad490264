package db_fx

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"itinera/internal/config"
	"itinera/internal/infra"
	"itinera/internal/planner"
	"itinera/internal/repositories"
	mem "itinera/pkg/memcache"
)

var Module = fx.Provide(provideStateRepository)

// provideStateRepository picks the planner state backend from store.driver.
func provideStateRepository(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	memStore mem.SessionStore,
) (repositories.PlannerStateRepository, error) {
	switch strings.ToLower(cfg.Store.Driver) {
	case "postgres":
		db, err := infra.InitPostgresql(cfg.Store.PostgresURL, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				infra.ClosePostgresql(db, log)
				return nil
			},
		})
		return repositories.NewPlannerStateRepository(db), nil

	case "valkey":
		client, err := infra.InitValkey(context.Background(), cfg.Store.ValkeyAddr)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				client.Close()
				return nil
			},
		})
		log.Info("connected to Valkey", zap.String("addr", cfg.Store.ValkeyAddr))
		return repositories.NewValkeyStateRepository(client, cfg.Store.KeyPrefix, planner.PersistedKeys), nil

	case "memory":
		log.Warn("planner state is kept in memory and lost on restart")
		return repositories.NewMemoryStateRepository(memStore), nil

	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}
