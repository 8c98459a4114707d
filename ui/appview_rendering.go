package ui

import (
	"fmt"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
	"github.com/mattn/go-runewidth"

	"cepyx/conv"
)

// View implements tea.Model.
func (a AppView) View() string {
	if !a.ready {
		return "Yükleniyor..."
	}
	if a.showSidebar {
		return a.sidebarView()
	}

	return fmt.Sprintf(
		"%s\n%s\n%s\n%s",
		a.headerView(),
		a.viewport.View(),
		a.textarea.View(),
		a.footerView(),
	)
}

func (a AppView) headerView() string {
	left := TitleStyle.Render(a.dataModel.Config.AssistantName)
	if name := a.dataModel.Provider.GetDisplayName(); name != "" {
		left += DimStyle.Render(" · " + name)
	}

	title := a.conversationTitle()
	leftWidth := runewidth.StringWidth(stripANSI(left))
	available := a.width - leftWidth - 1
	if available < 4 {
		title = ""
	} else if runewidth.StringWidth(title) > available {
		title = runewidth.Truncate(title, available, "…")
	}

	padding := a.width - leftWidth - runewidth.StringWidth(title)
	if padding < 0 {
		padding = 0
	}
	return left + strings.Repeat(" ", padding) + DimStyle.Render(title)
}

func (a AppView) conversationTitle() string {
	if active, ok := a.dataModel.Store.Active(); ok {
		return active.Title
	}
	return ""
}

func (a AppView) footerView() string {
	return FormatFooter(
		"Enter", "Gönder",
		"Ctrl+N", "Yeni",
		"Ctrl+L", "Konuşmalar",
		"Ctrl+T", "Düşünce",
		"Ctrl+Y", "Kopyala",
		"Ctrl+C", "Çıkış",
	)
}

func (a AppView) sidebarView() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Konuşmalar"))
	b.WriteString("\n\n")

	if a.filterMode || strings.TrimSpace(a.filterInput.Value()) != "" {
		b.WriteString(a.filterInput.View())
		b.WriteString("\n\n")
	}

	list := a.visibleConversations()
	if len(list) == 0 {
		b.WriteString(DimStyle.Render("Henüz konuşma yok."))
		b.WriteString("\n")
	}
	for i, summary := range list {
		line := fmt.Sprintf("%s  %s (%d mesaj)",
			summary.UpdatedAt.Format("02.01 15:04"),
			summary.Title,
			summary.MessageCount,
		)
		if summary.ID == a.dataModel.Store.ActiveID() {
			line += " •"
		}
		if i == a.selectedConvIdx {
			b.WriteString(SelectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(FormatFooter(
		"j/k", "Gezin",
		"Enter", "Seç",
		"d", "Sil",
		"/", "Ara",
		"Esc", "Kapat",
	))
	return b.String()
}

// updateViewportContent rebuilds the chat transcript in the viewport.
func (a *AppView) updateViewportContent(gotoBottom bool) {
	messages := a.dataModel.History.Snapshot()
	if len(messages) == 0 && !a.waiting {
		a.viewport.SetContent(DimStyle.Render("Henüz mesaj yok. Sohbete başlayın!"))
		return
	}

	var content strings.Builder
	for _, msg := range messages {
		timestamp := DimStyle.Render(msg.Timestamp.Format("[15:04]"))

		switch msg.Role {
		case conv.RoleUser:
			role := UserStyle.Render("Siz")
			content.WriteString(fmt.Sprintf("%s %s\n%s\n\n", timestamp, role, msg.Content))

		case conv.RoleAssistant:
			role := AssistantStyle.Render(a.dataModel.Config.AssistantName)
			content.WriteString(fmt.Sprintf("%s %s\n", timestamp, role))
			if a.showThinking && msg.Thinking != "" {
				content.WriteString(ThinkingStyle.Render(msg.Thinking))
				content.WriteString("\n")
			}
			content.WriteString(a.renderMarkdown(msg))
			content.WriteString("\n\n")

		default:
			content.WriteString(fmt.Sprintf("%s %s\n\n", timestamp, DimStyle.Render(msg.Content)))
		}
	}

	if a.waiting {
		content.WriteString(fmt.Sprintf("%s %s\n",
			a.loadingSpinner.View(),
			ThinkingStyle.Render("Düşünüyorum...")))
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

// renderMarkdown renders an assistant message with go-term-markdown,
// caching per message ID. The cache is dropped on window resize.
func (a *AppView) renderMarkdown(msg conv.Message) string {
	if cached, ok := a.renderedCache[msg.ID]; ok {
		return cached
	}

	width := a.width - 4
	if width < 20 {
		width = 20
	}

	// Disable autolink so terminal emulators handle URL detection
	defaultExt := markdown.Extensions()
	customExt := defaultExt &^ parser.Autolink
	p := parser.NewWithExtensions(customExt)
	r := markdown.NewRenderer(width, 0)
	doc := p.Parse([]byte(msg.Content))
	rendered := strings.TrimRight(string(gomarkdown.Render(doc, r)), "\n")

	a.renderedCache[msg.ID] = rendered
	return rendered
}

// stripANSI removes escape sequences for width measurement.
func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
