package model

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"cepyx/config"
	"cepyx/conv"
)

// FlushInterval is how often the live history is written through to
// storage in the background.
const FlushInterval = 30 * time.Second

// AppendUserMessage appends the user's prompt to the live history,
// tagging it with the dominant theme as of this turn. Returns the
// appended message.
func (m *Model) AppendUserMessage(content string) conv.Message {
	msg := conv.NewMessage(conv.RoleUser, content)
	msg.Theme = conv.DominantTheme(append(m.History.Snapshot(), msg))
	m.History.Append(msg)
	return msg
}

// SendTurn sends the prompt with the packed context upstream and
// returns the scrubbed assistant message. The context is built from a
// snapshot that already includes the just-appended user message.
func (m *Model) SendTurn(prompt string) tea.Cmd {
	snapshot := m.History.Snapshot()
	assistantName := m.Config.AssistantName
	prov := m.Provider

	return func() tea.Msg {
		contextMsgs := conv.BuildContext(snapshot, assistantName)
		if config.Debug {
			config.DebugLog.Printf("[Turn] Sending prompt (%d context messages)", len(contextMsgs))
		}

		reply, err := prov.Send(context.Background(), prompt, contextMsgs)
		if err != nil {
			return TurnErrorMsg{Err: err}
		}

		thinking := reply.Thinking
		text, extracted := conv.ExtractThinking(reply.Text)
		if thinking == "" {
			thinking = extracted
		}
		text = conv.Scrub(text)

		msg := conv.NewMessage(conv.RoleAssistant, strings.TrimSpace(text))
		msg.Thinking = strings.TrimSpace(thinking)
		msg.Theme = conv.DominantTheme(append(snapshot, msg))
		return TurnCompleteMsg{Message: msg}
	}
}

// SyncActive persists the live history into the active conversation.
func (m *Model) SyncActive() tea.Cmd {
	store := m.Store
	snapshot := m.History.Snapshot()
	return func() tea.Msg {
		store.Sync(toStorageMessages(snapshot))
		return FlushDoneMsg{}
	}
}

// NewConversation flushes the live history, creates a fresh
// conversation, and makes it active.
func (m *Model) NewConversation() tea.Cmd {
	store := m.Store
	snapshot := m.History.Snapshot()
	return func() tea.Msg {
		store.Sync(toStorageMessages(snapshot))
		created := store.Create(nil, "")
		return ConversationCreatedMsg{ID: created.ID}
	}
}

// SwitchConversation makes another conversation active, flushing the
// live history first so no turn is lost. Unknown ids are a no-op.
func (m *Model) SwitchConversation(id string) tea.Cmd {
	if id == m.Store.ActiveID() {
		return nil
	}
	store := m.Store
	snapshot := m.History.Snapshot()
	return func() tea.Msg {
		messages, ok := store.Load(id, toStorageMessages(snapshot))
		if !ok {
			if config.Debug {
				config.DebugLog.Printf("[Conversation] Switch to unknown id %q ignored", id)
			}
			return nil
		}
		return ConversationLoadedMsg{ID: id, Messages: fromStorageMessages(messages)}
	}
}

// DeleteConversation removes a conversation from the store.
func (m *Model) DeleteConversation(id string) tea.Cmd {
	store := m.Store
	return func() tea.Msg {
		store.Delete(id)
		return ConversationDeletedMsg{ID: id}
	}
}

// FetchConversations lists stored conversations for the sidebar.
func (m *Model) FetchConversations() tea.Cmd {
	store := m.Store
	return func() tea.Msg {
		return ConversationsListMsg{Conversations: store.List()}
	}
}

// FlushTick schedules the next periodic persistence tick.
func FlushTick() tea.Cmd {
	return tea.Tick(FlushInterval, func(time.Time) tea.Msg {
		return FlushTickMsg{}
	})
}

// Flush writes the live history and store state through to disk.
func (m *Model) Flush() tea.Cmd {
	store := m.Store
	snapshot := m.History.Snapshot()
	return func() tea.Msg {
		store.Sync(toStorageMessages(snapshot))
		return FlushDoneMsg{Err: store.Flush()}
	}
}
