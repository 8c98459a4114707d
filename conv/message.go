// Package conv implements the conversation engine: message history with
// anchor-preserving eviction, theme and interest classification, context
// selection for the upstream model call, and scrubbing of leaked
// reasoning text from model output.
package conv

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message roles. The engine only ever produces these three.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message represents one conversational turn. Messages are immutable
// after creation; they disappear only through history eviction or
// conversation deletion.
type Message struct {
	ID        string
	Role      string
	Content   string
	Thinking  string // Extracted reasoning trace, never sent upstream
	Theme     string // Dominant theme at creation time, may be empty
	Timestamp time.Time
}

// NewMessage creates a message with a fresh ID and timestamp.
func NewMessage(role, content string) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// WordCount returns the number of whitespace-separated words in the
// message content. Empty or missing content counts as zero.
func (m Message) WordCount() int {
	return len(strings.Fields(m.Content))
}

// HasCodeBlock reports whether the content contains a fenced code block
// delimiter.
func (m Message) HasCodeBlock() bool {
	return strings.Contains(m.Content, "```")
}
