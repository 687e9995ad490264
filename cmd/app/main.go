package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"itinera/cmd/fx/config_fx"
	"itinera/cmd/fx/controllers_fx"
	"itinera/cmd/fx/db_fx"
	"itinera/cmd/fx/logger_fx"
	"itinera/cmd/fx/maps_fx"
	"itinera/cmd/fx/memcache_fx"
	"itinera/cmd/fx/planner_fx"
	"itinera/cmd/fx/session_fx"
	"itinera/cmd/fx/suggestion_fx"
	"itinera/internal/api/controllers"
	"itinera/internal/config"
	"itinera/pkg/metrics"
	"itinera/pkg/middleware"
	"itinera/pkg/utils"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		config_fx.Module,
		logger_fx.Module,
		memcache_fx.Module,
		db_fx.Module,
		maps_fx.Module,
		suggestion_fx.Module,
		planner_fx.Module,
		session_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				log.Info("starting HTTP server", zap.String("addr", srv.Addr))
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("HTTP server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping HTTP server")
			ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	})
}

type routerParams struct {
	fx.In

	Config     *config.Config
	Log        *zap.Logger
	Signer     *utils.SessionSigner
	Suggestion *controllers.SuggestionController
	Planner    *controllers.PlannerController
	Session    *controllers.SessionController
	Places     *controllers.PlacesController
	Health     *controllers.HealthController
}

func ProvideRouter(p routerParams) *gin.Engine {
	gin.SetMode(p.Config.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(p.Log))
	r.Use(metrics.Middleware())
	r.Use(middleware.CORSMiddleware())

	RegisterRoutes(r, p)

	return r
}

func RegisterRoutes(r *gin.Engine, p routerParams) {
	r.GET("/healthz", p.Health.HealthHandler)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.POST("/suggest-places", p.Suggestion.SuggestPlacesHandler)
	api.POST("/suggested-places", p.Suggestion.SuggestedPlacesHandler)
	api.POST("/sessions", p.Session.CreateSessionHandler)
	api.GET("/places/autocomplete", p.Places.AutocompleteHandler)

	plannerGroup := api.Group("/planner", middleware.SessionMiddleware(p.Signer))
	plannerGroup.GET("", p.Planner.GetStateHandler)
	plannerGroup.DELETE("", p.Planner.ClearHandler)
	plannerGroup.PUT("/start-point", p.Planner.SetStartPointHandler)
	plannerGroup.PUT("/end-point", p.Planner.SetEndPointHandler)
	plannerGroup.PUT("/intermediate-cities", p.Planner.SetIntermediateCitiesHandler)
	plannerGroup.POST("/intermediate-cities", p.Planner.AddIntermediateCityHandler)
	plannerGroup.DELETE("/intermediate-cities/:index", p.Planner.RemoveIntermediateCityHandler)
	plannerGroup.PUT("/sidebar-tab", p.Planner.SetSidebarTabHandler)
	plannerGroup.PUT("/selected-city", p.Planner.SelectCityHandler)
	plannerGroup.PUT("/map-view", p.Planner.SetMapViewHandler)
	plannerGroup.POST("/places", p.Planner.AddPlaceHandler)
	plannerGroup.POST("/places/toggle", p.Planner.TogglePlaceHandler)
	plannerGroup.DELETE("/places", p.Planner.RemovePlaceByNameHandler)
	plannerGroup.DELETE("/places/:placeId", p.Planner.RemovePlaceHandler)
	plannerGroup.POST("/route", p.Planner.CalculateRouteHandler)
	plannerGroup.POST("/cities/:city/optimize", p.Planner.OptimizeDayHandler)
}
