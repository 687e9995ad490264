package utils

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidSession         = errors.New("invalid or expired session")
	ErrProviderNotConfigured  = errors.New("provider not configured")
	ErrUpstreamLLM            = errors.New("language model request failed")
	ErrMalformedSuggestions   = errors.New("language model returned malformed suggestions")
	ErrRouteEndpointsRequired = errors.New("start and end points are required")
	ErrRouteUnavailable       = errors.New("route could not be calculated")
	ErrMapsUnavailable        = errors.New("mapping provider request failed")
	ErrNotEnoughPlaces        = errors.New("at least two places are required")
	ErrGeocodeFailed          = errors.New("place could not be geocoded")
	ErrPlaceNotFound          = errors.New("place not found")
	ErrStaleResponse          = errors.New("response superseded by a newer request")
)
