package utils

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"
)

// CompletionClientInterface sends a single prompt to a hosted language model
// and returns its reply, which the model is instructed to format as a JSON object.
type CompletionClientInterface interface {
	CompleteJSON(ctx context.Context, prompt string) (string, error)
	Provider() string
}

// OpenAICompletionClient implements CompletionClientInterface with chat completions.
type OpenAICompletionClient struct {
	client      *openai.Client
	model       string
	temperature float32
}

func NewOpenAICompletionClient(apiKey, model string, temperature float32) *OpenAICompletionClient {
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	return &OpenAICompletionClient{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
	}
}

func (c *OpenAICompletionClient) Provider() string { return "openai" }

func (c *OpenAICompletionClient) CompleteJSON(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// GeminiCompletionClient implements CompletionClientInterface using Google's Gemini models
type GeminiCompletionClient struct {
	client      *genai.Client
	model       string
	temperature float32
}

func NewGeminiCompletionClient(ctx context.Context, apiKey, model string, temperature float32) (*GeminiCompletionClient, error) {
	if model == "" {
		model = "gemini-1.5-flash" // Free tier model
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiCompletionClient{
		client:      client,
		model:       model,
		temperature: temperature,
	}, nil
}

func (c *GeminiCompletionClient) Provider() string { return "gemini" }

func (c *GeminiCompletionClient) CompleteJSON(ctx context.Context, prompt string) (string, error) {
	m := c.client.GenerativeModel(c.model)
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(c.temperature)

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: no content generated")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return CleanJSONResponse(sb.String()), nil
}

// Close closes the Gemini client
func (c *GeminiCompletionClient) Close() error {
	return c.client.Close()
}

// unconfiguredClient stands in when no API key is set, so the server still
// starts and only the suggestion endpoints fail.
type unconfiguredClient struct {
	provider string
}

func (u unconfiguredClient) Provider() string { return u.provider }

func (u unconfiguredClient) CompleteJSON(context.Context, string) (string, error) {
	return "", fmt.Errorf("%s: %w", u.provider, ErrProviderNotConfigured)
}

// NewCompletionClient Factory function to create either OpenAI or Gemini client based on config
func NewCompletionClient(ctx context.Context, provider, apiKey, model string, temperature float32) (CompletionClientInterface, error) {
	provider = strings.ToLower(provider)
	if apiKey == "" {
		return unconfiguredClient{provider: provider}, nil
	}
	switch provider {
	case "openai":
		return NewOpenAICompletionClient(apiKey, model, temperature), nil
	case "gemini":
		return NewGeminiCompletionClient(ctx, apiKey, model, temperature)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// CleanJSONResponse strips markdown fences and surrounding prose from a model
// reply, keeping the first complete JSON object or array.
func CleanJSONResponse(response string) string {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```JSON", "")
	response = strings.ReplaceAll(response, "```", "")
	response = strings.TrimSpace(response)

	objStart := strings.Index(response, "{")
	arrStart := strings.Index(response, "[")

	if objStart != -1 && (arrStart == -1 || objStart < arrStart) {
		if objEnd := findMatching(response, objStart, '{', '}'); objEnd != -1 {
			response = response[objStart : objEnd+1]
		}
	} else if arrStart != -1 {
		if arrEnd := findMatching(response, arrStart, '[', ']'); arrEnd != -1 {
			response = response[arrStart : arrEnd+1]
		}
	}

	return strings.TrimSpace(response)
}

// findMatching returns the index of the delimiter closing the one at start,
// skipping string literals, or -1.
func findMatching(s string, start int, open, close byte) int {
	if start >= len(s) || s[start] != open {
		return -1
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		char := s[i]

		if escaped {
			escaped = false
			continue
		}
		if char == '\\' && inString {
			escaped = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch char {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}
