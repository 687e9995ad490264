package planner_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"itinera/internal/config"
	"itinera/internal/planner"
	"itinera/internal/repositories"
	"itinera/internal/services"
)

var Module = fx.Provide(
	provideFields,
	provideRegistry,
	services.NewPlannerService)

func provideFields(repo repositories.PlannerStateRepository, log *zap.Logger) *planner.Fields {
	return planner.NewFields(repo, log)
}

func provideRegistry(fields *planner.Fields, cfg *config.Config, log *zap.Logger) *planner.Registry {
	return planner.NewRegistry(fields, cfg.Store.IdleTTL, log)
}
