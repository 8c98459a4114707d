// Package provider abstracts the upstream model backends. The primary
// backend is the Cloudflare Worker proxy the app was built around;
// Ollama, OpenAI, and Anthropic can be selected through configuration.
package provider

import (
	"context"

	"cepyx/conv"
)

// ProviderType identifies which backend implementation to use.
type ProviderType string

const (
	ProviderTypeWorker    ProviderType = "worker"
	ProviderTypeOllama    ProviderType = "ollama"
	ProviderTypeOpenAI    ProviderType = "openai"
	ProviderTypeAnthropic ProviderType = "anthropic"
)

// Config holds the settings needed to construct any provider.
type Config struct {
	Type     ProviderType
	Endpoint string // Worker endpoint URL
	BaseURL  string // API base URL for SDK-backed providers
	Model    string
	APIKey   string
}

// Reply is one completed assistant turn. Thinking holds the reasoning
// trace when the backend reports it separately; it is never sent back
// upstream.
type Reply struct {
	Text     string
	Thinking string
}

// Provider is the contract every backend implements. Send is
// synchronous: it returns the complete reply for one turn.
type Provider interface {
	Send(ctx context.Context, prompt string, context []conv.ContextMessage) (Reply, error)
	GetModel() string
	GetDisplayName() string
	SetModel(model string)
	Ping(ctx context.Context) error
}
