package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"googlemaps.github.io/maps"
	"itinera/internal/models/response_models"
	"itinera/internal/planner"
	"itinera/pkg/metrics"
	"itinera/pkg/utils"
)

// MapsClient is the subset of *maps.Client used here.
type MapsClient interface {
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
	PlaceAutocomplete(ctx context.Context, r *maps.PlaceAutocompleteRequest) (maps.AutocompleteResponse, error)
}

// DirectionsQuery asks for a driving route through Waypoints, letting the
// provider reorder them when Optimize is set.
type DirectionsQuery struct {
	Origin      string
	Destination string
	Waypoints   []string
	Optimize    bool
}

type MapsServiceInterface interface {
	Directions(ctx context.Context, q DirectionsQuery) (maps.Route, error)
	Geocode(ctx context.Context, address string) (planner.LatLng, error)
	AutocompleteCities(ctx context.Context, input string) ([]response_models.CityPrediction, error)
}

// --------- Geocode cache ---------

type GeocodeCache interface {
	Get(address string) (planner.LatLng, bool)
	Set(address string, v planner.LatLng, ttl time.Duration)
}

type geocodeCache struct {
	items *cache.Cache
}

// NewGeocodeCache purges expired entries every cleanupInterval.
func NewGeocodeCache(cleanupInterval time.Duration) GeocodeCache {
	if cleanupInterval <= 0 {
		cleanupInterval = 10 * time.Minute
	}
	return &geocodeCache{items: cache.New(24*time.Hour, cleanupInterval)}
}

func geocodeKey(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}

func (c *geocodeCache) Get(address string) (planner.LatLng, bool) {
	v, ok := c.items.Get(geocodeKey(address))
	if !ok {
		return planner.LatLng{}, false
	}
	return v.(planner.LatLng), true
}

func (c *geocodeCache) Set(address string, v planner.LatLng, ttl time.Duration) {
	c.items.Set(geocodeKey(address), v, ttl)
}

// -------------- Google Maps client ---------------

type MapsService struct {
	client     MapsClient
	cache      GeocodeCache
	geocodeTTL time.Duration
	timeout    time.Duration
	region     string
	log        *zap.Logger
}

type MapsOptions struct {
	GeocodeTTL time.Duration
	Timeout    time.Duration
	Region     string
}

// NewMapsService accepts a nil client; every call then fails with
// utils.ErrProviderNotConfigured.
func NewMapsService(client MapsClient, cache GeocodeCache, opts MapsOptions, log *zap.Logger) MapsServiceInterface {
	if opts.GeocodeTTL <= 0 {
		opts.GeocodeTTL = 24 * time.Hour
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	return &MapsService{
		client:     client,
		cache:      cache,
		geocodeTTL: opts.GeocodeTTL,
		timeout:    opts.Timeout,
		region:     opts.Region,
		log:        log,
	}
}

func (s *MapsService) Directions(ctx context.Context, q DirectionsQuery) (maps.Route, error) {
	if s.client == nil {
		return maps.Route{}, fmt.Errorf("google maps: %w", utils.ErrProviderNotConfigured)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	routes, _, err := s.client.Directions(ctx, &maps.DirectionsRequest{
		Origin:      q.Origin,
		Destination: q.Destination,
		Waypoints:   q.Waypoints,
		Optimize:    q.Optimize,
		Mode:        maps.TravelModeDriving,
		Region:      s.region,
	})
	metrics.ObserveExternal("google_maps", "directions", err)
	if err != nil {
		s.log.Warn("directions request failed",
			zap.String("origin", q.Origin), zap.String("destination", q.Destination), zap.Error(err))
		return maps.Route{}, fmt.Errorf("%w: %v", utils.ErrRouteUnavailable, err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return maps.Route{}, fmt.Errorf("%w: no route found", utils.ErrRouteUnavailable)
	}
	return routes[0], nil
}

func (s *MapsService) Geocode(ctx context.Context, address string) (planner.LatLng, error) {
	if s.client == nil {
		return planner.LatLng{}, fmt.Errorf("google maps: %w", utils.ErrProviderNotConfigured)
	}

	if v, ok := s.cache.Get(address); ok {
		metrics.CacheHits.WithLabelValues("geocode").Inc()
		return v, nil
	}
	metrics.CacheMisses.WithLabelValues("geocode").Inc()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{
		Address: address,
		Region:  s.region,
	})
	metrics.ObserveExternal("google_maps", "geocode", err)
	if err != nil {
		s.log.Warn("geocode request failed", zap.String("address", address), zap.Error(err))
		return planner.LatLng{}, fmt.Errorf("%w: %v", utils.ErrGeocodeFailed, err)
	}
	if len(results) == 0 {
		return planner.LatLng{}, fmt.Errorf("%w: no results for %q", utils.ErrGeocodeFailed, address)
	}

	loc := results[0].Geometry.Location
	v := planner.LatLng{Lat: loc.Lat, Lng: loc.Lng}
	s.cache.Set(address, v, s.geocodeTTL)
	return v, nil
}

func (s *MapsService) AutocompleteCities(ctx context.Context, input string) ([]response_models.CityPrediction, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, utils.ErrInvalidInput
	}
	if s.client == nil {
		return nil, fmt.Errorf("google maps: %w", utils.ErrProviderNotConfigured)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.PlaceAutocomplete(ctx, &maps.PlaceAutocompleteRequest{
		Input: input,
		Types: maps.AutocompletePlaceTypeCities,
	})
	metrics.ObserveExternal("google_maps", "autocomplete", err)
	if err != nil {
		s.log.Warn("autocomplete request failed", zap.String("input", input), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", utils.ErrMapsUnavailable, err)
	}

	out := make([]response_models.CityPrediction, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		out = append(out, response_models.CityPrediction{Description: p.Description, PlaceID: p.PlaceID})
	}
	return out, nil
}
