// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/research-assistant/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/research-assistant/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/research-assistant/internal/adapters/driving/tui/components/transcript"
	"github.com/custodia-labs/research-assistant/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/research-assistant/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/research-assistant/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/research-assistant/internal/adapters/driving/upload"
	"github.com/custodia-labs/research-assistant/internal/core/domain"
	"github.com/custodia-labs/research-assistant/internal/core/ports/driving"
)

// uploadCommand prefixes input that indexes a local PDF instead of asking.
const uploadCommand = "/upload"

// View represents the chat view with transcript, input and status bar.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.ChatInput
	transcript *transcript.Transcript
	statusbar  *status.Bar

	chat      driving.ChatService
	ingestion driving.IngestionService
	history   driving.HistoryService
	ctx       context.Context
	limit     int
	now       func() time.Time

	width  int
	height int
	ready  bool
	busy   bool
	err    error
}

// NewView creates a new chat view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	chat driving.ChatService,
	ingestion driving.IngestionService,
	history driving.HistoryService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewChatInput(s),
		transcript: transcript.New(s),
		statusbar:  status.NewBar(s, km),
		chat:       chat,
		ingestion:  ingestion,
		history:    history,
		ctx:        context.Background(),
		now:        time.Now,
		width:      80,
		height:     24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// WithLimit sets how many passages each question retrieves.
func (v *View) WithLimit(limit int) *View {
	v.limit = limit
	return v
}

// SetTarget names where questions are answered, for the status bar.
func (v *View) SetTarget(target string) {
	v.statusbar.SetTarget(target)
}

// Init initialises the view and loads the saved conversation.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.loadHistory())
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.HistoryLoaded:
		v.handleHistoryLoaded(msg)
		return v, nil

	case messages.HistoryCleared:
		v.handleHistoryCleared(msg)
		return v, nil

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.IngestCompleted:
		v.handleIngestCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, v.keymap.Submit):
		return v, v.submit()
	case keymap.Matches(key, v.keymap.ClearHistory):
		if v.busy {
			return v, nil
		}
		return v, v.clearHistory()
	case keymap.Matches(key, v.keymap.ScrollUp), keymap.Matches(key, v.keymap.ScrollDown):
		v.transcript, _ = v.transcript.Update(msg)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit sends the input as a question or an upload command.
// Nothing is sent while a previous request is in flight.
func (v *View) submit() tea.Cmd {
	text := strings.TrimSpace(v.input.Value())
	if text == "" || v.busy {
		return nil
	}
	v.input.Reset()
	v.err = nil
	v.busy = true

	if path, ok := strings.CutPrefix(text, uploadCommand); ok && (path == "" || path[0] == ' ') {
		v.statusbar.SetState(status.StateUploading)
		return v.ingest(strings.TrimSpace(path))
	}

	v.transcript.Append(domain.HistoryMessage{
		Role:      domain.RoleUser,
		Content:   text,
		Timestamp: v.now().UTC(),
	})
	v.statusbar.SetState(status.StateThinking)
	return v.ask(text)
}

// ask runs one question and records the exchange.
func (v *View) ask(query string) tea.Cmd {
	return func() tea.Msg {
		msg := messages.AnswerReceived{Query: query}
		if v.history != nil {
			if _, err := v.history.RecordQuestion(v.ctx, query); err != nil {
				msg.HistoryErr = err
			}
		}

		msg.Response, msg.Err = v.chat.Ask(v.ctx, domain.ChatQuery{Query: query, Limit: v.limit})
		if msg.Err != nil || v.history == nil {
			return msg
		}
		if _, err := v.history.RecordAnswer(v.ctx, msg.Response.Answer, msg.Response.Sources); err != nil {
			msg.HistoryErr = err
		}
		return msg
	}
}

// ingest indexes a local PDF.
func (v *View) ingest(path string) tea.Cmd {
	return func() tea.Msg {
		if v.ingestion == nil {
			return messages.IngestCompleted{Path: path, Err: ErrNoIngestionService}
		}
		file, err := upload.FromPath(path)
		if err != nil {
			return messages.IngestCompleted{Path: path, Err: err}
		}
		result, err := v.ingestion.IngestPDF(v.ctx, file)
		return messages.IngestCompleted{Path: path, Result: result, Err: err}
	}
}

func (v *View) loadHistory() tea.Cmd {
	if v.history == nil {
		return nil
	}
	return func() tea.Msg {
		msgs, err := v.history.List(v.ctx, 0)
		return messages.HistoryLoaded{Messages: msgs, Err: err}
	}
}

func (v *View) clearHistory() tea.Cmd {
	if v.history == nil {
		v.transcript.SetMessages(nil)
		return nil
	}
	return func() tea.Msg {
		return messages.HistoryCleared{Err: v.history.Clear(v.ctx)}
	}
}

func (v *View) handleAnswer(msg messages.AnswerReceived) {
	v.busy = false
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.transcript.Append(domain.HistoryMessage{
		Role:      domain.RoleAssistant,
		Content:   msg.Response.Answer,
		Sources:   msg.Response.Sources,
		Timestamp: v.now().UTC(),
	})
	if msg.HistoryErr != nil {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage("history not saved: " + msg.HistoryErr.Error())
		return
	}
	v.statusbar.Clear()
}

func (v *View) handleIngestCompleted(msg messages.IngestCompleted) {
	v.busy = false
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}
	v.statusbar.SetState(status.StateNotice)
	v.statusbar.SetMessage(fmt.Sprintf("Indexed %s: %d pages, %d chunks",
		msg.Result.Filename, msg.Result.Pages, msg.Result.Chunks))
}

func (v *View) handleHistoryLoaded(msg messages.HistoryLoaded) {
	if msg.Err != nil {
		v.setError(fmt.Errorf("loading history: %w", msg.Err))
		return
	}
	v.transcript.SetMessages(msg.Messages)
}

func (v *View) handleHistoryCleared(msg messages.HistoryCleared) {
	if msg.Err != nil {
		v.setError(fmt.Errorf("clearing history: %w", msg.Err))
		return
	}
	v.transcript.SetMessages(nil)
	v.statusbar.SetState(status.StateNotice)
	v.statusbar.SetMessage("History cleared")
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{
		v.styles.Title.Render("Research Assistant"),
		"",
		v.transcript.View(),
		"",
		v.input.View(),
		v.statusbar.View(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	// Header, spacers, bordered input and status bar take 8 lines.
	v.input.SetWidth(width)
	v.transcript.SetDimensions(width, height-8)
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Busy returns whether a request is in flight.
func (v *View) Busy() bool {
	return v.busy
}

// Input returns the current input text.
func (v *View) Input() string {
	return v.input.Value()
}

// SetInput sets the input text.
func (v *View) SetInput(text string) {
	v.input.SetValue(text)
}

// Messages returns the displayed conversation.
func (v *View) Messages() []domain.HistoryMessage {
	return v.transcript.Messages()
}

// Status returns the status bar state and message.
func (v *View) Status() (status.State, string) {
	return v.statusbar.State(), v.statusbar.Message()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
