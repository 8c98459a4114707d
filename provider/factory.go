package provider

import (
	"fmt"
)

// NewProvider creates a provider from configuration, dispatching on
// Config.Type.
func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Type {
	case ProviderTypeWorker:
		return NewWorkerProvider(cfg.Endpoint, cfg.Model)
	case ProviderTypeOllama:
		return NewOllamaProvider(cfg.BaseURL, cfg.Model)
	case ProviderTypeOpenAI:
		return NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeAnthropic:
		return NewAnthropicProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// MapProviderIDToType converts a config provider id to the factory
// ProviderType. Unknown ids pass through so the factory reports them.
func MapProviderIDToType(id string) ProviderType {
	switch id {
	case "worker", "":
		return ProviderTypeWorker
	case "ollama":
		return ProviderTypeOllama
	case "openai":
		return ProviderTypeOpenAI
	case "anthropic":
		return ProviderTypeAnthropic
	default:
		return ProviderType(id)
	}
}
