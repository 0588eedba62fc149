// Package registry builds the configured suggestion provider.
package registry

import (
	"context"
	"fmt"
	"net/http"

	"github.com/GoCodeAlone/timetable/provider"
	"github.com/GoCodeAlone/timetable/provider/mock"
)

// New builds the provider named by cfg.Type. An empty type returns nil and no
// error: suggestions are then unavailable.
func New(ctx context.Context, cfg provider.Config) (provider.Provider, error) {
	client := &http.Client{Timeout: cfg.Timeout}
	switch cfg.Type {
	case "":
		return nil, nil
	case "gemini":
		p, err := provider.NewGeminiProvider(ctx, provider.GeminiConfig{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			BaseURL:    cfg.BaseURL,
			MaxTokens:  cfg.MaxTokens,
			HTTPClient: client,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	case "anthropic":
		return provider.NewAnthropicProvider(provider.AnthropicConfig{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			BaseURL:    cfg.BaseURL,
			MaxTokens:  cfg.MaxTokens,
			HTTPClient: client,
		}), nil
	case "openai":
		return provider.NewOpenAIProvider(provider.OpenAIConfig{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			BaseURL:    cfg.BaseURL,
			MaxTokens:  cfg.MaxTokens,
			HTTPClient: client,
		}), nil
	case "mock":
		return mock.New(cfg.Responses...), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", cfg.Type)
	}
}
