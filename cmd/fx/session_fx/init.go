package session_fx

import (
	"go.uber.org/fx"
	"itinera/internal/config"
	"itinera/internal/services"
	"itinera/pkg/utils"
)

var Module = fx.Provide(
	provideSessionSigner,
	services.NewSessionService)

func provideSessionSigner(cfg *config.Config) *utils.SessionSigner {
	return utils.NewSessionSigner(cfg.Session.Secret, cfg.Session.TTL)
}
