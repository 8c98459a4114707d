package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"cepyx/conv"
)

// workerTimeout bounds one full upstream turn. The worker itself polls
// its backend, so slow turns are expected.
const workerTimeout = 120 * time.Second

// WorkerProvider talks to the Cloudflare Worker proxy. The worker takes
// the prompt and the serialized context as query parameters and replies
// with whatever shape its current backend produces; ParseReply sorts
// that out.
type WorkerProvider struct {
	endpoint string
	model    string
	client   *http.Client
}

// NewWorkerProvider creates a worker provider for the given endpoint
// URL. The endpoint is required; the model name is informational only,
// the worker picks its own backend model.
func NewWorkerProvider(endpoint, model string) (*WorkerProvider, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("worker endpoint is required")
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid worker endpoint: %w", err)
	}

	return &WorkerProvider{
		endpoint: endpoint,
		model:    model,
		client:   &http.Client{Timeout: workerTimeout},
	}, nil
}

// Send implements Provider.Send. The prompt goes in its own query
// parameter alongside the full serialized context, so the worker sees
// both the new message and the conversation it belongs to.
func (p *WorkerProvider) Send(ctx context.Context, prompt string, contextMsgs []conv.ContextMessage) (Reply, error) {
	u, err := url.Parse(p.endpoint)
	if err != nil {
		return Reply{}, fmt.Errorf("invalid worker endpoint: %w", err)
	}

	contextJSON, err := json.Marshal(contextMsgs)
	if err != nil {
		return Reply{}, fmt.Errorf("failed to marshal context: %w", err)
	}

	q := u.Query()
	q.Set("prompt", prompt)
	q.Set("context", string(contextJSON))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Reply{}, fmt.Errorf("failed to build worker request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Reply{}, fmt.Errorf("worker request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Reply{}, fmt.Errorf("failed to read worker response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Reply{}, fmt.Errorf("worker returned HTTP %d: %s", resp.StatusCode, string(body))
	}

	return ParseReply(string(body))
}

// GetModel implements Provider.GetModel.
func (p *WorkerProvider) GetModel() string {
	return p.model
}

// GetDisplayName implements Provider.GetDisplayName.
func (p *WorkerProvider) GetDisplayName() string {
	if p.model != "" {
		return p.model
	}
	return "worker"
}

// SetModel implements Provider.SetModel. Informational only for the
// worker backend.
func (p *WorkerProvider) SetModel(model string) {
	p.model = model
}

// Ping implements Provider.Ping with a HEAD request against the
// endpoint.
func (p *WorkerProvider) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build ping request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("worker unreachable: %w", err)
	}
	resp.Body.Close()
	return nil
}
