package provider

import "time"

// Config selects and configures a provider.
type Config struct {
	Type      string // "gemini", "anthropic", "openai", "mock", or "" for none
	Model     string
	APIKey    string
	BaseURL   string
	MaxTokens int
	Timeout   time.Duration

	// Responses are the scripted replies of the mock provider.
	Responses []string
}
