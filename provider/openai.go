package provider

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"cepyx/conv"
)

// OpenAIProvider implements the Provider interface with the official
// OpenAI Go SDK.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider creates an OpenAI provider. The API key is
// required.
func NewOpenAIProvider(baseURL, apiKey, model string) (*OpenAIProvider, error) {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &OpenAIProvider{
		client: client,
		model:  model,
	}, nil
}

// Send implements Provider.Send.
func (p *OpenAIProvider) Send(ctx context.Context, prompt string, contextMsgs []conv.ContextMessage) (Reply, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(contextMsgs)+1)
	for _, msg := range contextMsgs {
		switch msg.Role {
		case conv.RoleSystem:
			messages = append(messages, openai.SystemMessage(msg.Content))
		case conv.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}
	if n := len(contextMsgs); n == 0 || contextMsgs[n-1].Role != conv.RoleUser || contextMsgs[n-1].Content != prompt {
		messages = append(messages, openai.UserMessage(prompt))
	}

	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    openai.ChatModel(p.model),
	})
	if err != nil {
		return Reply{}, fmt.Errorf("OpenAI chat failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return Reply{}, fmt.Errorf("OpenAI returned no choices")
	}

	return Reply{Text: completion.Choices[0].Message.Content}, nil
}

// GetModel implements Provider.GetModel.
func (p *OpenAIProvider) GetModel() string {
	return p.model
}

// GetDisplayName implements Provider.GetDisplayName.
func (p *OpenAIProvider) GetDisplayName() string {
	return p.model
}

// SetModel implements Provider.SetModel.
func (p *OpenAIProvider) SetModel(model string) {
	p.model = model
}

// Ping implements Provider.Ping with a minimal completion request.
func (p *OpenAIProvider) Ping(ctx context.Context) error {
	_, err := p.client.Models.List(ctx)
	if err != nil {
		return fmt.Errorf("OpenAI unreachable: %w", err)
	}
	return nil
}
