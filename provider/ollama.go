package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"cepyx/conv"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama3.1:latest"
)

// OllamaProvider talks to a local Ollama server through the official
// API client.
type OllamaProvider struct {
	client *api.Client
	model  string
}

// NewOllamaProvider creates an Ollama provider. Empty baseURL and model
// fall back to the local defaults.
func NewOllamaProvider(baseURL, model string) (*OllamaProvider, error) {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	if model == "" {
		model = defaultOllamaModel
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	client := api.NewClient(u, &http.Client{Timeout: 120 * time.Second})
	return &OllamaProvider{
		client: client,
		model:  model,
	}, nil
}

// Send implements Provider.Send. The context already carries the
// system preamble and the newest user message, so the prompt itself is
// only appended when the context is empty.
func (p *OllamaProvider) Send(ctx context.Context, prompt string, contextMsgs []conv.ContextMessage) (Reply, error) {
	messages := toAPIMessages(prompt, contextMsgs)

	stream := false
	req := &api.ChatRequest{
		Model:    p.model,
		Messages: messages,
		Stream:   &stream,
	}

	var text, thinking strings.Builder
	err := p.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		text.WriteString(resp.Message.Content)
		thinking.WriteString(resp.Message.Thinking)
		return nil
	})
	if err != nil {
		return Reply{}, fmt.Errorf("Ollama chat failed: %w", err)
	}

	return Reply{Text: text.String(), Thinking: thinking.String()}, nil
}

// GetModel implements Provider.GetModel.
func (p *OllamaProvider) GetModel() string {
	return p.model
}

// GetDisplayName implements Provider.GetDisplayName. Strips the
// ":latest" suffix for the header line.
func (p *OllamaProvider) GetDisplayName() string {
	return strings.TrimSuffix(p.model, ":latest")
}

// SetModel implements Provider.SetModel.
func (p *OllamaProvider) SetModel(model string) {
	p.model = model
}

// Ping implements Provider.Ping.
func (p *OllamaProvider) Ping(ctx context.Context) error {
	if err := p.client.Heartbeat(ctx); err != nil {
		return fmt.Errorf("Ollama server unreachable: %w", err)
	}
	return nil
}

// toAPIMessages converts the context payload to Ollama messages,
// appending the prompt as a trailing user message only when the
// context does not already end with it.
func toAPIMessages(prompt string, contextMsgs []conv.ContextMessage) []api.Message {
	messages := make([]api.Message, 0, len(contextMsgs)+1)
	for _, msg := range contextMsgs {
		messages = append(messages, api.Message{Role: msg.Role, Content: msg.Content})
	}
	if n := len(messages); n == 0 || messages[n-1].Role != conv.RoleUser || messages[n-1].Content != prompt {
		messages = append(messages, api.Message{Role: conv.RoleUser, Content: prompt})
	}
	return messages
}
