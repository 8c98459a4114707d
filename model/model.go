package model

import (
	"cepyx/config"
	"cepyx/conv"
	"cepyx/provider"
	"cepyx/storage"
)

// Model holds the core application data and business logic state.
type Model struct {
	// Core dependencies
	Config   *config.Config
	Store    *storage.ConversationStore
	Provider provider.Provider

	// Live history of the active conversation
	History *conv.History

	// Runtime state (not UI)
	Streaming          bool
	NeedsInitialRender bool
	Quitting           bool

	// Application metadata
	Version string
}

// NewModel creates a Model and resumes the active conversation from
// storage. Without one a fresh conversation is created so the app
// always has somewhere to append.
func NewModel(cfg *config.Config, store *storage.ConversationStore, prov provider.Provider, version string) *Model {
	var messages []conv.Message
	if active, ok := store.Active(); ok {
		messages = fromStorageMessages(active.Messages)
		if config.Debug {
			config.DebugLog.Printf("[Model] Resumed conversation %q (%d messages)", active.Title, len(messages))
		}
	} else {
		store.Create(nil, "")
		if config.Debug {
			config.DebugLog.Printf("[Model] Started a fresh conversation")
		}
	}

	return &Model{
		Config:             cfg,
		Store:              store,
		Provider:           prov,
		History:            conv.NewHistory(messages),
		NeedsInitialRender: len(messages) > 0,
		Version:            version,
	}
}

// toStorageMessages converts live history messages to their persisted
// form.
func toStorageMessages(messages []conv.Message) []storage.Message {
	out := make([]storage.Message, 0, len(messages))
	for _, msg := range messages {
		out = append(out, storage.Message{
			ID:        msg.ID,
			Role:      msg.Role,
			Content:   msg.Content,
			Thinking:  msg.Thinking,
			Theme:     msg.Theme,
			Timestamp: msg.Timestamp,
		})
	}
	return out
}

// fromStorageMessages converts persisted messages back to the live
// form.
func fromStorageMessages(messages []storage.Message) []conv.Message {
	out := make([]conv.Message, 0, len(messages))
	for _, msg := range messages {
		out = append(out, conv.Message{
			ID:        msg.ID,
			Role:      msg.Role,
			Content:   msg.Content,
			Thinking:  msg.Thinking,
			Theme:     msg.Theme,
			Timestamp: msg.Timestamp,
		})
	}
	return out
}
