package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/research-assistant/internal/adapters/driving/tui/styles"
)

func TestNewChatInput(t *testing.T) {
	input := NewChatInput(styles.DefaultStyles())

	require.NotNil(t, input)
	assert.Equal(t, "", input.Value())
	assert.True(t, input.Focused())
	assert.Equal(t, 50, input.Width())
}

func TestNewChatInput_NilStyles(t *testing.T) {
	input := NewChatInput(nil)

	require.NotNil(t, input)
	assert.NotNil(t, input.styles)
}

func TestChatInput_Init(t *testing.T) {
	input := NewChatInput(nil)

	assert.NotNil(t, input.Init())
}

func TestChatInput_Update_Typing(t *testing.T) {
	input := NewChatInput(nil)

	for _, r := range "hello" {
		input.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	assert.Equal(t, "hello", input.Value())

	input.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "hell", input.Value())
}

func TestChatInput_View(t *testing.T) {
	input := NewChatInput(nil)

	assert.Contains(t, input.View(), "Ask")
}

func TestChatInput_FocusBlur(t *testing.T) {
	input := NewChatInput(nil)

	input.Blur()
	assert.False(t, input.Focused())

	assert.NotNil(t, input.Focus())
	assert.True(t, input.Focused())
}

func TestChatInput_SetWidth(t *testing.T) {
	input := NewChatInput(nil)

	input.SetWidth(100)
	assert.Equal(t, 100, input.Width())
	assert.Equal(t, 90, input.textinput.Width)

	input.SetWidth(10)
	assert.Equal(t, 20, input.textinput.Width)
}

func TestChatInput_SetValueAndReset(t *testing.T) {
	input := NewChatInput(nil)

	input.SetValue("what is attention?")
	assert.Equal(t, "what is attention?", input.Value())

	input.Reset()
	assert.Equal(t, "", input.Value())
}
