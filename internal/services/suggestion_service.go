package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"itinera/internal/models/response_models"
	"itinera/pkg/metrics"
	"itinera/pkg/utils"
)

type SuggestionServiceInterface interface {
	SuggestPlaces(ctx context.Context, city, interests string) ([]response_models.PlaceSuggestion, error)
	SuggestForCities(ctx context.Context, cities []string, vibe string) ([]response_models.CityPlaceSuggestion, error)
}

type SuggestionService struct {
	llm     utils.CompletionClientInterface
	cache   *cache.Cache
	sem     *semaphore.Weighted
	timeout time.Duration
	log     *zap.Logger
}

type SuggestionOptions struct {
	CacheTTL      time.Duration
	MaxConcurrent int64
	Timeout       time.Duration
}

func NewSuggestionService(llm utils.CompletionClientInterface, opts SuggestionOptions, log *zap.Logger) SuggestionServiceInterface {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * time.Minute
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 5
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &SuggestionService{
		llm:     llm,
		cache:   cache.New(opts.CacheTTL, 2*opts.CacheTTL),
		sem:     semaphore.NewWeighted(opts.MaxConcurrent),
		timeout: opts.Timeout,
		log:     log,
	}
}

func placesPrompt(city, interests string) string {
	return fmt.Sprintf(`Recommend 3 unique places to visit in %s for someone interested in: %s. `+
		`Return a valid JSON object with a single key "suggestions", which contains an array of objects. `+
		`Each object in the array should have two keys: "place" (the name of the location) and `+
		`"description" (a short, compelling description of max 15 words).`, city, interests)
}

func citiesPrompt(cities []string, vibe string) string {
	return fmt.Sprintf(`Recommend up to 2 unique places to visit in each of these cities: %s, `+
		`for a trip with this vibe: %s. `+
		`Return a valid JSON object with a single key "suggestions", which contains an array of objects. `+
		`Each object in the array should have three keys: "city" (exactly one of the cities listed above), `+
		`"place" (the name of the location) and "description" (a short, compelling description of max 15 words).`,
		strings.Join(cities, "; "), vibe)
}

func (s *SuggestionService) SuggestPlaces(ctx context.Context, city, interests string) ([]response_models.PlaceSuggestion, error) {
	city = strings.TrimSpace(city)
	interests = strings.TrimSpace(interests)
	if city == "" || interests == "" {
		return nil, utils.ErrInvalidInput
	}

	key := "places|" + strings.ToLower(city) + "|" + strings.ToLower(interests)
	if v, ok := s.cache.Get(key); ok {
		metrics.CacheHits.WithLabelValues("suggestions").Inc()
		return v.([]response_models.PlaceSuggestion), nil
	}
	metrics.CacheMisses.WithLabelValues("suggestions").Inc()

	raw, err := s.complete(ctx, "suggest_places", placesPrompt(city, interests))
	if err != nil {
		return nil, err
	}

	var suggestions []response_models.PlaceSuggestion
	if err := decodeSuggestions(raw, &suggestions); err != nil {
		s.log.Error("language model response did not match the expected format",
			zap.String("city", city), zap.String("raw", raw), zap.Error(err))
		return []response_models.PlaceSuggestion{}, utils.ErrMalformedSuggestions
	}

	out := make([]response_models.PlaceSuggestion, 0, len(suggestions))
	for _, p := range suggestions {
		if strings.TrimSpace(p.Place) == "" {
			continue
		}
		out = append(out, p)
	}

	s.cache.SetDefault(key, out)
	return out, nil
}

func (s *SuggestionService) SuggestForCities(ctx context.Context, cities []string, vibe string) ([]response_models.CityPlaceSuggestion, error) {
	vibe = strings.TrimSpace(vibe)
	requested := make(map[string]string, len(cities))
	clean := make([]string, 0, len(cities))
	for _, c := range cities {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, dup := requested[strings.ToLower(c)]; dup {
			continue
		}
		requested[strings.ToLower(c)] = c
		clean = append(clean, c)
	}
	if len(clean) == 0 || vibe == "" {
		return nil, utils.ErrInvalidInput
	}

	key := "cities|" + strings.ToLower(strings.Join(clean, ";")) + "|" + strings.ToLower(vibe)
	if v, ok := s.cache.Get(key); ok {
		metrics.CacheHits.WithLabelValues("suggestions").Inc()
		return v.([]response_models.CityPlaceSuggestion), nil
	}
	metrics.CacheMisses.WithLabelValues("suggestions").Inc()

	raw, err := s.complete(ctx, "suggest_for_cities", citiesPrompt(clean, vibe))
	if err != nil {
		return nil, err
	}

	var suggestions []response_models.CityPlaceSuggestion
	if err := decodeSuggestions(raw, &suggestions); err != nil {
		s.log.Error("language model response did not match the expected format",
			zap.Strings("cities", clean), zap.String("raw", raw), zap.Error(err))
		return []response_models.CityPlaceSuggestion{}, utils.ErrMalformedSuggestions
	}

	perCity := make(map[string]int, len(clean))
	out := make([]response_models.CityPlaceSuggestion, 0, len(suggestions))
	for _, p := range suggestions {
		city, ok := requested[strings.ToLower(strings.TrimSpace(p.City))]
		if !ok || strings.TrimSpace(p.Place) == "" || perCity[city] >= 2 {
			continue
		}
		perCity[city]++
		p.City = city
		out = append(out, p)
	}

	s.cache.SetDefault(key, out)
	return out, nil
}

// complete runs one model call, bounded by the semaphore and the timeout.
func (s *SuggestionService) complete(ctx context.Context, operation, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("%w: %v", utils.ErrUpstreamLLM, err)
	}
	defer s.sem.Release(1)

	start := time.Now()
	raw, err := s.llm.CompleteJSON(ctx, prompt)
	metrics.ObserveExternal(s.llm.Provider(), operation, err)
	if err != nil {
		s.log.Error("language model request failed",
			zap.String("provider", s.llm.Provider()), zap.String("operation", operation), zap.Error(err))
		if errors.Is(err, utils.ErrProviderNotConfigured) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", utils.ErrUpstreamLLM, err)
	}
	s.log.Debug("language model responded",
		zap.String("operation", operation), zap.Duration("took", time.Since(start)))
	return raw, nil
}

// decodeSuggestions unmarshals the "suggestions" array of raw into list and
// fails when the key is missing or not an array.
func decodeSuggestions(raw string, list any) error {
	cleaned := utils.CleanJSONResponse(raw)

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &envelope); err != nil {
		return err
	}
	field, ok := envelope["suggestions"]
	if !ok {
		return errors.New(`missing "suggestions" key`)
	}
	if t := strings.TrimSpace(string(field)); !strings.HasPrefix(t, "[") {
		return errors.New(`"suggestions" is not an array`)
	}
	return json.Unmarshal(field, list)
}
