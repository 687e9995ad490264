package suggestion_fx

import (
	"context"
	"io"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"itinera/internal/config"
	"itinera/internal/services"
	"itinera/pkg/utils"
)

var Module = fx.Provide(
	provideCompletionClient,
	provideSuggestionService)

// provideCompletionClient creates the language model client for llm.provider.
func provideCompletionClient(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (utils.CompletionClientInterface, error) {
	var apiKey, model string
	switch strings.ToLower(cfg.LLM.Provider) {
	case "openai":
		apiKey, model = cfg.LLM.OpenAIKey, cfg.LLM.OpenAIModel
	case "gemini":
		apiKey, model = cfg.LLM.GeminiKey, cfg.LLM.GeminiModel
	}
	if apiKey == "" {
		log.Warn("no API key for language model provider; suggestions are disabled",
			zap.String("provider", cfg.LLM.Provider))
	} else {
		log.Info("initializing language model client",
			zap.String("provider", cfg.LLM.Provider), zap.String("model", model))
	}

	client, err := utils.NewCompletionClient(context.Background(), cfg.LLM.Provider, apiKey, model, cfg.LLM.Temperature)
	if err != nil {
		return nil, err
	}
	if closer, ok := client.(io.Closer); ok {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return closer.Close()
			},
		})
	}
	return client, nil
}

func provideSuggestionService(llm utils.CompletionClientInterface, cfg *config.Config, log *zap.Logger) services.SuggestionServiceInterface {
	return services.NewSuggestionService(llm, services.SuggestionOptions{
		CacheTTL:      cfg.LLM.CacheTTL,
		MaxConcurrent: cfg.LLM.MaxConcurrent,
		Timeout:       cfg.LLM.Timeout,
	}, log)
}
