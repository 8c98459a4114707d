package provider

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseReply interprets a raw worker response body. The worker fronts
// several different model backends and each has its own response shape,
// so the payload is duck-typed: known content fields are probed in a
// fixed priority order. Unrecognized JSON is surfaced pretty-printed
// rather than dropped, and non-JSON bodies are treated as plain text
// with an optional leading reasoning preamble.
func ParseReply(body string) (Reply, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &payload); err != nil || payload == nil {
		return parsePlainText(body), nil
	}

	if raw, ok := payload["error"]; ok {
		var msg string
		if json.Unmarshal(raw, &msg) == nil && msg != "" {
			return Reply{}, fmt.Errorf("upstream error: %s", msg)
		}
		return Reply{}, fmt.Errorf("upstream error: %s", string(raw))
	}

	var reply Reply
	if raw, ok := payload["thinking"]; ok {
		var thinking string
		if json.Unmarshal(raw, &thinking) == nil {
			reply.Thinking = thinking
		}
	}

	if text, ok := extractText(payload); ok {
		reply.Text = text
		return reply, nil
	}

	// Unknown shape: show the whole payload instead of losing it.
	pretty, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		reply.Text = body
		return reply, nil
	}
	reply.Text = string(pretty)
	return reply, nil
}

// extractText probes the known content fields in priority order.
func extractText(payload map[string]json.RawMessage) (string, bool) {
	if text, ok := stringField(payload, "response"); ok {
		return text, true
	}

	if raw, ok := payload["choices"]; ok {
		var choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		}
		if json.Unmarshal(raw, &choices) == nil && len(choices) > 0 {
			return choices[0].Message.Content, true
		}
	}

	if text, ok := stringField(payload, "content"); ok {
		return text, true
	}

	if raw, ok := payload["message"]; ok {
		var msg struct {
			Content string `json:"content"`
		}
		if json.Unmarshal(raw, &msg) == nil && msg.Content != "" {
			return msg.Content, true
		}
	}

	for _, key := range []string{"text", "answer", "result"} {
		if text, ok := stringField(payload, key); ok {
			return text, true
		}
	}
	return "", false
}

func stringField(payload map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := payload[key]
	if !ok {
		return "", false
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil || text == "" {
		return "", false
	}
	return text, true
}

// parsePlainText splits a non-JSON body into a reasoning preamble and
// the reply proper. Everything before the first "#" or blank line is
// the preamble; a body without either delimiter is all reply.
func parsePlainText(body string) Reply {
	hash := strings.Index(body, "#")
	blank := strings.Index(body, "\n\n")

	cut := -1
	width := 0
	switch {
	case hash >= 0 && (blank < 0 || hash < blank):
		cut, width = hash, 1
	case blank >= 0:
		cut, width = blank, 2
	}
	if cut < 0 {
		return Reply{Text: body}
	}

	return Reply{
		Thinking: strings.TrimSpace(body[:cut]),
		Text:     strings.TrimSpace(body[cut+width:]),
	}
}
