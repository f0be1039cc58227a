// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/research-assistant/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the conversation view.
	ViewChat ViewType = iota
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// AnswerReceived carries the outcome of one question.
type AnswerReceived struct {
	Query    string
	Response *domain.ChatResponse
	Err      error

	// HistoryErr is set when the exchange could not be saved locally.
	HistoryErr error
}

// HistoryLoaded carries the persisted conversation.
type HistoryLoaded struct {
	Messages []domain.HistoryMessage
	Err      error
}

// HistoryCleared signals the persisted conversation was deleted.
type HistoryCleared struct {
	Err error
}

// IngestCompleted carries the outcome of an /upload command.
type IngestCompleted struct {
	Path   string
	Result *domain.IngestResult
	Err    error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
