// Package transcript renders the chat conversation for the TUI.
package transcript

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/research-assistant/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/research-assistant/internal/core/domain"
)

// Transcript displays chat messages, newest at the bottom.
// The offset counts lines scrolled up from the bottom.
type Transcript struct {
	messages []domain.HistoryMessage
	offset   int
	styles   *styles.Styles
	width    int
	height   int
}

// New creates a new transcript component.
func New(s *styles.Styles) *Transcript {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &Transcript{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the transcript.
func (t *Transcript) Init() tea.Cmd {
	return nil
}

// Update handles scrolling keys.
func (t *Transcript) Update(msg tea.Msg) (*Transcript, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			t.ScrollUp(1)
		case tea.KeyDown:
			t.ScrollDown(1)
		case tea.KeyPgUp:
			t.ScrollUp(t.height)
		case tea.KeyPgDown:
			t.ScrollDown(t.height)
		}
	}
	return t, nil
}

// View renders the visible part of the conversation.
func (t *Transcript) View() string {
	if len(t.messages) == 0 {
		return t.styles.Muted.Render("No messages yet. Upload a PDF, then ask a question.")
	}

	lines := t.lines()
	end := len(lines) - t.offset
	start := end - t.height
	if start < 0 {
		start = 0
	}
	return strings.Join(lines[start:end], "\n")
}

// lines renders every message, wrapped to the width.
func (t *Transcript) lines() []string {
	body := t.styles.Normal.Width(t.contentWidth())
	var out []string
	for i := range t.messages {
		msg := &t.messages[i]
		if i > 0 {
			out = append(out, "")
		}
		out = append(out, t.label(msg.Role))
		out = append(out, strings.Split(body.Render(msg.Content), "\n")...)
		if cite := FormatSources(msg.Sources); cite != "" {
			out = append(out, t.styles.Citation.Render("  "+cite))
		}
	}
	return out
}

func (t *Transcript) label(role domain.Role) string {
	if role == domain.RoleUser {
		return t.styles.UserLabel.Render("You")
	}
	return t.styles.AssistantLabel.Render("Assistant")
}

func (t *Transcript) contentWidth() int {
	if t.width < 20 {
		return 20
	}
	return t.width - 2
}

// FormatSources renders citations as "Sources: ldm.pdf p.2, ldm.pdf p.5".
// Missing fields render as "?".
func FormatSources(sources []domain.Source) string {
	if len(sources) == 0 {
		return ""
	}
	parts := make([]string, len(sources))
	for i, s := range sources {
		name := "?"
		if s.Source != nil {
			name = *s.Source
		}
		page := "?"
		if s.Page != nil {
			page = fmt.Sprintf("%d", *s.Page)
		}
		parts[i] = fmt.Sprintf("%s p.%s", name, page)
	}
	return "Sources: " + strings.Join(parts, ", ")
}

// Append adds a message and scrolls to the bottom.
func (t *Transcript) Append(msg domain.HistoryMessage) {
	t.messages = append(t.messages, msg)
	t.offset = 0
}

// SetMessages replaces the conversation.
func (t *Transcript) SetMessages(msgs []domain.HistoryMessage) {
	t.messages = msgs
	t.offset = 0
}

// Messages returns the conversation.
func (t *Transcript) Messages() []domain.HistoryMessage {
	return t.messages
}

// ScrollUp moves towards older messages.
func (t *Transcript) ScrollUp(n int) {
	maxOffset := len(t.lines()) - t.height
	if maxOffset < 0 {
		maxOffset = 0
	}
	t.offset += n
	if t.offset > maxOffset {
		t.offset = maxOffset
	}
}

// ScrollDown moves towards newer messages.
func (t *Transcript) ScrollDown(n int) {
	t.offset -= n
	if t.offset < 0 {
		t.offset = 0
	}
}

// Offset returns how many lines the view is scrolled up.
func (t *Transcript) Offset() int {
	return t.offset
}

// SetDimensions sets the component dimensions.
func (t *Transcript) SetDimensions(width, height int) {
	t.width = width
	if height < 1 {
		height = 1
	}
	t.height = height
}

// Count returns the number of messages.
func (t *Transcript) Count() int {
	return len(t.messages)
}
