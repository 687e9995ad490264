package maps_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"googlemaps.github.io/maps"
	"itinera/internal/config"
	"itinera/internal/services"
)

var Module = fx.Provide(
	provideMapsClient,
	provideMapsService,
	services.NewRouteService)

// provideMapsClient returns a nil client when no API key is configured so the
// server starts and only the map endpoints fail.
func provideMapsClient(cfg *config.Config, log *zap.Logger) (services.MapsClient, error) {
	if cfg.Maps.APIKey == "" {
		log.Warn("maps.api_key is not set; routing and geocoding are disabled")
		return nil, nil
	}
	client, err := maps.NewClient(maps.WithAPIKey(cfg.Maps.APIKey))
	if err != nil {
		return nil, err
	}
	return client, nil
}

func provideMapsService(client services.MapsClient, cfg *config.Config, log *zap.Logger) services.MapsServiceInterface {
	return services.NewMapsService(client, services.NewGeocodeCache(0), services.MapsOptions{
		GeocodeTTL: cfg.Maps.GeocodeCacheTTL,
		Timeout:    cfg.Maps.Timeout,
		Region:     cfg.Maps.Region,
	}, log)
}
