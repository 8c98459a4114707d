package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MaxConversations is the cap on stored conversations. Creating one
// past the cap evicts the least recently updated conversation first.
const MaxConversations = 20

// DefaultTitle is the title of a conversation before its first user
// message arrives.
const DefaultTitle = "Yeni Konuşma"

// titleLimit is the rune budget for a derived conversation title.
const titleLimit = 30

// Persisted keys.
const (
	keyConversations = "conversations"
	keyActive        = "active_conversation"
	keyTheme         = "theme_preference"
)

// Message is the persisted form of a conversational turn.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Thinking  string    `json:"thinking,omitempty"`
	Theme     string    `json:"theme,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is one stored conversation with its full message
// history.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConversationSummary is the lightweight listing form for the sidebar.
type ConversationSummary struct {
	ID           string
	Title        string
	UpdatedAt    time.Time
	MessageCount int
}

// ConversationStore keeps all conversations in memory and writes them
// through a KV backend. Every persisted write is a full-value
// overwrite, so a flush is idempotent and safe to repeat.
type ConversationStore struct {
	mu              sync.Mutex
	kv              KV
	conversations   map[string]*Conversation
	activeID        string
	themePreference string
}

// NewConversationStore loads persisted state from kv. Missing or
// corrupt values degrade to an empty store rather than failing: losing
// history beats refusing to start.
func NewConversationStore(kv KV) *ConversationStore {
	s := &ConversationStore{
		kv:            kv,
		conversations: make(map[string]*Conversation),
	}

	if raw, err := kv.Get(keyConversations); err == nil {
		var loaded map[string]*Conversation
		if err := json.Unmarshal([]byte(raw), &loaded); err == nil && loaded != nil {
			s.conversations = loaded
		}
	}
	if raw, err := kv.Get(keyActive); err == nil {
		if _, ok := s.conversations[raw]; ok {
			s.activeID = raw
		}
	}
	if raw, err := kv.Get(keyTheme); err == nil {
		s.themePreference = raw
	}
	return s
}

// Create starts a new conversation seeded with the given messages,
// makes it active, and persists. An empty title is derived from the
// first initial message when it is user-role, falling back to
// DefaultTitle. If the store is at MaxConversations the least recently
// updated conversation is evicted first.
func (s *ConversationStore) Create(initial []Message, title string) *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.conversations) >= MaxConversations {
		s.evictOldestLocked()
	}

	if title == "" {
		if len(initial) > 0 && initial[0].Role == "user" {
			title = DeriveTitle(initial[0].Content)
		} else {
			title = DefaultTitle
		}
	}

	now := time.Now()
	conv := &Conversation{
		ID:        uuid.New().String(),
		Title:     title,
		Messages:  append([]Message(nil), initial...),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.conversations[conv.ID] = conv
	s.activeID = conv.ID
	s.flushLocked()
	return snapshot(conv)
}

// evictOldestLocked removes the conversation with the oldest UpdatedAt,
// breaking timestamp ties by ID so eviction is deterministic.
func (s *ConversationStore) evictOldestLocked() {
	var victim string
	for id, conv := range s.conversations {
		if victim == "" {
			victim = id
			continue
		}
		cur := s.conversations[victim]
		if conv.UpdatedAt.Before(cur.UpdatedAt) ||
			(conv.UpdatedAt.Equal(cur.UpdatedAt) && id < victim) {
			victim = id
		}
	}
	if victim == "" {
		return
	}
	delete(s.conversations, victim)
	if s.activeID == victim {
		s.activeID = ""
	}
}

// Load switches the active conversation to id and returns its
// messages. A non-nil pending slice is the live history of the
// previously active conversation and is flushed first so no turn is
// lost on switch; nil means there is nothing to flush. An unknown id
// is a no-op: the active conversation and pending messages stay
// intact.
func (s *ConversationStore) Load(id string, pending []Message) ([]Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.conversations[id]
	if !ok {
		return nil, false
	}

	if pending != nil {
		s.syncLocked(pending)
	}
	s.activeID = id
	s.flushLocked()

	out := make([]Message, len(target.Messages))
	copy(out, target.Messages)
	return out, true
}

// Sync overwrites the active conversation's stored messages with the
// given snapshot, refreshes its title and UpdatedAt, and persists.
// Without an active conversation it does nothing.
func (s *ConversationStore) Sync(messages []Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked(messages)
	s.flushLocked()
}

func (s *ConversationStore) syncLocked(messages []Message) {
	conv, ok := s.conversations[s.activeID]
	if !ok {
		return
	}
	conv.Messages = make([]Message, len(messages))
	copy(conv.Messages, messages)
	conv.UpdatedAt = time.Now()
	if title := deriveTitleFrom(messages); title != "" {
		conv.Title = title
	}
}

// Delete removes a conversation. Deleting the active conversation
// clears the active pointer; the caller decides what becomes active
// next.
func (s *ConversationStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[id]; !ok {
		return
	}
	delete(s.conversations, id)
	if s.activeID == id {
		s.activeID = ""
	}
	s.flushLocked()
}

// List returns conversation summaries, most recently updated first.
func (s *ConversationStore) List() []ConversationSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ConversationSummary, 0, len(s.conversations))
	for _, conv := range s.conversations {
		out = append(out, ConversationSummary{
			ID:           conv.ID,
			Title:        conv.Title,
			UpdatedAt:    conv.UpdatedAt,
			MessageCount: len(conv.Messages),
		})
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].UpdatedAt.Equal(out[b].UpdatedAt) {
			return out[a].UpdatedAt.After(out[b].UpdatedAt)
		}
		return out[a].ID < out[b].ID
	})
	return out
}

// Active returns a copy of the active conversation, or false when none
// is active.
func (s *ConversationStore) Active() (*Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[s.activeID]
	if !ok {
		return nil, false
	}
	return snapshot(conv), true
}

// ActiveID returns the id of the active conversation, or "".
func (s *ConversationStore) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Count returns how many conversations are stored.
func (s *ConversationStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conversations)
}

// ThemePreference returns the stored UI theme preference, or "".
func (s *ConversationStore) ThemePreference() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.themePreference
}

// SetThemePreference stores and persists the UI theme preference.
func (s *ConversationStore) SetThemePreference(pref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.themePreference = pref
	s.flushLocked()
}

// Flush persists the full store state. Safe to call at any time, any
// number of times; used by the periodic background sync.
func (s *ConversationStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

func (s *ConversationStore) flushLocked() error {
	data, err := json.Marshal(s.conversations)
	if err != nil {
		return fmt.Errorf("failed to marshal conversations: %w", err)
	}
	if err := s.kv.Set(keyConversations, string(data)); err != nil {
		return err
	}
	if err := s.kv.Set(keyActive, s.activeID); err != nil {
		return err
	}
	return s.kv.Set(keyTheme, s.themePreference)
}

// DeriveTitle builds a conversation title from the first user message:
// the first titleLimit runes, with an ellipsis when the content was
// longer. Empty content keeps the default title.
func DeriveTitle(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return DefaultTitle
	}
	runes := []rune(content)
	if len(runes) <= titleLimit {
		return content
	}
	return string(runes[:titleLimit]) + "..."
}

func deriveTitleFrom(messages []Message) string {
	for _, msg := range messages {
		if msg.Role == "user" && strings.TrimSpace(msg.Content) != "" {
			return DeriveTitle(msg.Content)
		}
	}
	return ""
}

func snapshot(conv *Conversation) *Conversation {
	out := *conv
	out.Messages = make([]Message, len(conv.Messages))
	copy(out.Messages, conv.Messages)
	return &out
}
