// Package ui renders the terminal chat interface with Bubble Tea.
package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	appmodel "cepyx/model"
	"cepyx/storage"
)

// AppView is the Bubble Tea view over the core data model.
type AppView struct {
	// Reference to core data model
	dataModel *appmodel.Model

	// UI Components
	viewport viewport.Model
	textarea textarea.Model

	// Window state
	width  int
	height int
	ready  bool

	// Turn state: while waiting, an ephemeral thinking placeholder is
	// rendered under the history. It is never part of the history.
	waiting        bool
	loadingSpinner spinner.Model

	// Show extracted reasoning traces under assistant replies
	showThinking bool

	// Conversation sidebar
	showSidebar      bool
	conversations    []storage.ConversationSummary
	selectedConvIdx  int
	filterMode       bool
	filterInput      textinput.Model
	filteredConvList []storage.ConversationSummary

	// Markdown render cache, keyed by message ID
	renderedCache map[string]string
}

// NewAppView creates the app view around an initialized data model.
func NewAppView(dataModel *appmodel.Model) AppView {
	ta := textarea.New()
	ta.Placeholder = "Mesajınızı yazın..."
	ta.Focus()
	ta.Prompt = "┃ "
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accentColor)

	fi := textinput.New()
	fi.Placeholder = "Ara..."
	fi.Prompt = "/ "

	return AppView{
		dataModel:      dataModel,
		textarea:       ta,
		loadingSpinner: sp,
		filterInput:    fi,
		showThinking:   dataModel.Config.ShowThinking,
		renderedCache:  make(map[string]string),
	}
}

// Init implements tea.Model.
func (a AppView) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		appmodel.FlushTick(),
	)
}
