package controllers_fx

import (
	"go.uber.org/fx"
	"itinera/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewSuggestionController),
	fx.Provide(controllers.NewPlannerController),
	fx.Provide(controllers.NewSessionController),
	fx.Provide(controllers.NewPlacesController),
	fx.Provide(controllers.NewHealthController))
