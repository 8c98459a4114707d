package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"cepyx/config"
	"cepyx/conv"
	appmodel "cepyx/model"
	"cepyx/storage"
)

// Update implements tea.Model.
func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		headerHeight := 1
		footerHeight := 1
		textareaHeight := a.textarea.Height() + 1
		viewportHeight := a.height - headerHeight - footerHeight - textareaHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}

		if !a.ready {
			a.viewport = viewport.New(a.width, viewportHeight)
			a.ready = true
		} else {
			a.viewport.Width = a.width
			a.viewport.Height = viewportHeight
		}
		a.textarea.SetWidth(a.width - 2)
		// Window changed, cached renders are the wrong width now
		a.renderedCache = make(map[string]string)
		a.updateViewportContent(true)
		if a.dataModel.NeedsInitialRender {
			a.dataModel.NeedsInitialRender = false
			a.viewport.GotoBottom()
		}
		return a, nil

	case tea.KeyMsg:
		if a.showSidebar {
			return a.updateSidebarKeys(msg)
		}
		return a.updateChatKeys(msg)

	case spinner.TickMsg:
		if !a.waiting {
			return a, nil
		}
		var cmd tea.Cmd
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		a.updateViewportContent(false)
		return a, cmd

	case appmodel.TurnCompleteMsg:
		a.waiting = false
		if strings.TrimSpace(msg.Message.Content) != "" {
			a.dataModel.History.Append(msg.Message)
		}
		a.dataModel.Streaming = false
		a.updateViewportContent(true)
		return a, a.dataModel.SyncActive()

	case appmodel.TurnErrorMsg:
		// Discard the ephemeral placeholder and commit a single
		// assistant-role error message so the failure survives reload.
		a.waiting = false
		a.dataModel.Streaming = false
		if config.Debug {
			config.DebugLog.Printf("[UI] Turn failed: %v", msg.Err)
		}
		errMsg := conv.NewMessage(conv.RoleAssistant,
			fmt.Sprintf("Üzgünüm, bir hata oluştu: %v", msg.Err))
		a.dataModel.History.Append(errMsg)
		a.updateViewportContent(true)
		return a, a.dataModel.SyncActive()

	case appmodel.ConversationsListMsg:
		a.conversations = msg.Conversations
		a.applyConversationFilter()
		return a, nil

	case appmodel.ConversationLoadedMsg:
		a.dataModel.History.Replace(msg.Messages)
		a.showSidebar = false
		a.filterMode = false
		a.filterInput.Reset()
		a.updateViewportContent(true)
		return a, nil

	case appmodel.ConversationCreatedMsg:
		a.dataModel.History.Clear()
		a.showSidebar = false
		a.updateViewportContent(true)
		return a, nil

	case appmodel.ConversationDeletedMsg:
		// Deleting the active conversation leaves nothing active;
		// start fresh in that case.
		if a.dataModel.Store.ActiveID() == "" {
			a.dataModel.History.Clear()
			return a, tea.Batch(a.dataModel.NewConversation(), a.dataModel.FetchConversations())
		}
		return a, a.dataModel.FetchConversations()

	case appmodel.FlushTickMsg:
		return a, tea.Batch(a.dataModel.Flush(), appmodel.FlushTick())

	case appmodel.FlushDoneMsg:
		if msg.Err != nil && config.Debug {
			config.DebugLog.Printf("[UI] Flush failed: %v", msg.Err)
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	cmds = append(cmds, cmd)
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a AppView) updateChatKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		a.dataModel.Quitting = true
		return a, tea.Sequence(a.dataModel.Flush(), tea.Quit)

	case "ctrl+n":
		if a.waiting {
			return a, nil
		}
		return a, a.dataModel.NewConversation()

	case "ctrl+l":
		a.showSidebar = true
		a.selectedConvIdx = 0
		a.filterMode = false
		a.filterInput.Reset()
		return a, a.dataModel.FetchConversations()

	case "ctrl+t":
		a.showThinking = !a.showThinking
		a.updateViewportContent(false)
		return a, nil

	case "ctrl+y":
		if content, ok := a.lastAssistantContent(); ok {
			clipboard.WriteAll(content)
		}
		return a, nil

	case "enter":
		return a.sendPrompt()
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	cmds = append(cmds, cmd)
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a AppView) sendPrompt() (tea.Model, tea.Cmd) {
	prompt := strings.TrimSpace(a.textarea.Value())
	if prompt == "" || a.waiting {
		return a, nil
	}

	a.dataModel.AppendUserMessage(prompt)
	a.textarea.Reset()
	a.waiting = true
	a.dataModel.Streaming = true
	a.updateViewportContent(true)

	return a, tea.Batch(
		a.dataModel.SendTurn(prompt),
		a.loadingSpinner.Tick,
	)
}

func (a AppView) updateSidebarKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.filterMode {
		switch msg.String() {
		case "esc":
			a.filterMode = false
			a.filterInput.Reset()
			a.applyConversationFilter()
			return a, nil
		case "enter":
			a.filterMode = false
			return a, nil
		default:
			var cmd tea.Cmd
			a.filterInput, cmd = a.filterInput.Update(msg)
			a.applyConversationFilter()
			a.selectedConvIdx = 0
			return a, cmd
		}
	}

	list := a.visibleConversations()
	switch msg.String() {
	case "esc", "ctrl+l":
		a.showSidebar = false
		return a, nil

	case "ctrl+c":
		a.dataModel.Quitting = true
		return a, tea.Sequence(a.dataModel.Flush(), tea.Quit)

	case "up", "k":
		if a.selectedConvIdx > 0 {
			a.selectedConvIdx--
		}
		return a, nil

	case "down", "j":
		if a.selectedConvIdx < len(list)-1 {
			a.selectedConvIdx++
		}
		return a, nil

	case "/":
		a.filterMode = true
		a.filterInput.Focus()
		return a, nil

	case "d":
		if a.selectedConvIdx < len(list) {
			return a, a.dataModel.DeleteConversation(list[a.selectedConvIdx].ID)
		}
		return a, nil

	case "enter":
		if a.selectedConvIdx < len(list) {
			return a, a.dataModel.SwitchConversation(list[a.selectedConvIdx].ID)
		}
		return a, nil
	}
	return a, nil
}

// applyConversationFilter rebuilds the filtered sidebar list from the
// fuzzy filter input.
func (a *AppView) applyConversationFilter() {
	filter := strings.TrimSpace(a.filterInput.Value())
	if filter == "" {
		a.filteredConvList = nil
		return
	}

	targets := make([]string, len(a.conversations))
	for i, summary := range a.conversations {
		targets[i] = summary.Title
	}

	matches := fuzzy.Find(filter, targets)
	filtered := make([]storage.ConversationSummary, 0, len(matches))
	for _, match := range matches {
		filtered = append(filtered, a.conversations[match.Index])
	}
	a.filteredConvList = filtered
}

func (a AppView) visibleConversations() []storage.ConversationSummary {
	if strings.TrimSpace(a.filterInput.Value()) != "" {
		return a.filteredConvList
	}
	return a.conversations
}

func (a AppView) lastAssistantContent() (string, bool) {
	messages := a.dataModel.History.Snapshot()
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == conv.RoleAssistant {
			return messages[i].Content, true
		}
	}
	return "", false
}
