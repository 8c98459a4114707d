package conv

// MaxHistoryLength is the maximum number of messages kept per
// conversation. When an append would exceed it, the first message is
// retained as a long-range anchor (it seeds the conversation title and
// early context) and the middle is dropped.
const MaxHistoryLength = 50

// History is the ordered message sequence of one conversation.
// Insertion order is chronological order. A History belongs to exactly
// one active conversation at a time.
type History struct {
	messages []Message
}

// NewHistory creates a history pre-populated with the given messages.
// The slice is copied, not aliased.
func NewHistory(messages []Message) *History {
	h := &History{}
	h.Replace(messages)
	return h
}

// Append adds a message at the end and enforces MaxHistoryLength:
// index 0 survives, then the most recent MaxHistoryLength-1 entries,
// relative order preserved.
func (h *History) Append(msg Message) {
	h.messages = append(h.messages, msg)
	if len(h.messages) > MaxHistoryLength {
		first := h.messages[0]
		tail := h.messages[len(h.messages)-(MaxHistoryLength-1):]
		kept := make([]Message, 0, MaxHistoryLength)
		kept = append(kept, first)
		kept = append(kept, tail...)
		h.messages = kept
	}
}

// Snapshot returns a copy of the message sequence, safe to store
// without aliasing the live history.
func (h *History) Snapshot() []Message {
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Replace swaps the history contents for the given messages (used when
// switching conversations). The input is copied.
func (h *History) Replace(messages []Message) {
	h.messages = make([]Message, len(messages))
	copy(h.messages, messages)
}

// Clear empties the history.
func (h *History) Clear() {
	h.messages = nil
}

// Len returns the number of messages.
func (h *History) Len() int {
	return len(h.messages)
}

// FirstUserMessage returns the content of the first user-role message,
// or "" if there is none yet.
func (h *History) FirstUserMessage() string {
	for _, msg := range h.messages {
		if msg.Role == RoleUser {
			return msg.Content
		}
	}
	return ""
}
