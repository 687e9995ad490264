package logger_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"itinera/internal/config"
	"itinera/pkg/logger"
)

var Module = fx.Provide(provideLogger)

// provideLogger also installs the logger as zap's global, which the response
// helpers in pkg/utils log through.
func provideLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	undo := zap.ReplaceGlobals(log)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			undo()
			_ = log.Sync()
			return nil
		},
	})
	return log, nil
}
