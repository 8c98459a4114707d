package model

import (
	"cepyx/conv"
	"cepyx/storage"
)

// TurnCompleteMsg carries the finished assistant message for the turn.
type TurnCompleteMsg struct {
	Message conv.Message
}

// TurnErrorMsg signals that the upstream call failed; the ephemeral
// thinking placeholder must be discarded.
type TurnErrorMsg struct {
	Err error
}

type ConversationsListMsg struct {
	Conversations []storage.ConversationSummary
}

// ConversationLoadedMsg carries the messages of a conversation that
// just became active.
type ConversationLoadedMsg struct {
	ID       string
	Messages []conv.Message
}

type ConversationCreatedMsg struct {
	ID string
}

type ConversationDeletedMsg struct {
	ID string
}

// FlushTickMsg fires on the periodic persistence interval.
type FlushTickMsg struct{}

type FlushDoneMsg struct {
	Err error
}
