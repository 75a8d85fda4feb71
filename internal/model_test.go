package internal

import (
	"strings"
	"testing"
	"time"

	"worktime/internal/session"
	"worktime/internal/timelog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nineAM = time.Date(2024, 1, 5, 9, 0, 0, 0, time.Local)

func typeText(m *PromptModel, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func isQuit(t *testing.T, cmd tea.Cmd) bool {
	t.Helper()
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestPromptModelSubmit(t *testing.T) {
	m := NewPromptModel(session.Prompt{Field: session.FieldTag, Label: session.TagPrompt}, nil, nil)

	typeText(m, "meeting")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, isQuit(t, cmd))
	assert.True(t, m.Submitted())
	assert.False(t, m.Interrupted())
	assert.Equal(t, "meeting", m.Value())
	assert.Contains(t, m.View(), "tag: meeting")
}

func TestPromptModelSubmitEmpty(t *testing.T) {
	m := NewPromptModel(session.Prompt{Field: session.FieldTicket, Label: session.TicketPrompt}, nil, nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, isQuit(t, cmd))
	assert.True(t, m.Submitted())
	assert.Equal(t, "", m.Value())
}

func TestPromptModelInterrupt(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		m := NewPromptModel(session.Prompt{Field: session.FieldProject, Label: session.ProjectPrompt}, nil, nil)
		typeText(m, "acme")

		_, cmd := m.Update(tea.KeyMsg{Type: key})

		assert.True(t, isQuit(t, cmd))
		assert.True(t, m.Interrupted())
		assert.False(t, m.Submitted())
		assert.Empty(t, m.View())
	}
}

func TestPromptModelIgnoresKeysOnceDone(t *testing.T) {
	m := NewPromptModel(session.Prompt{Field: session.FieldTag, Label: session.TagPrompt}, nil, nil)
	typeText(m, "dev")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	typeText(m, "more")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Nil(t, cmd)
	assert.Equal(t, "dev", m.Value())
	assert.False(t, m.Interrupted())
}

func TestPromptModelShowsElapsedTime(t *testing.T) {
	now := nineAM.Add(2*time.Minute + 5*time.Second)
	clock := func() time.Time { return now }
	m := NewPromptModel(session.Prompt{
		Field:     session.FieldDescription,
		Label:     session.DescriptionPrompt,
		Project:   "acme",
		StartedAt: nineAM,
	}, clock, nil)

	require.NotNil(t, m.Watch)
	view := m.View()
	assert.Contains(t, view, "acme")
	assert.Contains(t, view, "02:05")
	assert.Contains(t, view, "for quitting")
	assert.NotContains(t, view, ">>")

	_, cmd := m.Update(MsgTick{})
	assert.NotNil(t, cmd, "ticks continue while waiting for input")

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	_, cmd = m.Update(MsgTick{})
	assert.Nil(t, cmd, "ticks stop once answered")
}

func TestPromptModelProjectPromptHasNoTimer(t *testing.T) {
	m := NewPromptModel(session.Prompt{Field: session.FieldProject, Label: session.ProjectPrompt}, nil, []string{"acme", "globex"})

	assert.Nil(t, m.Watch)
	assert.True(t, m.Input.ShowSuggestions)
	assert.Contains(t, m.View(), "Your Current Project")
	assert.Contains(t, m.View(), "Tab: Complete")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "00:00", formatDuration(0))
	assert.Equal(t, "15:30", formatDuration(930*time.Second))
	assert.Equal(t, "1:02:03", formatDuration(time.Hour+2*time.Minute+3*time.Second))
}

func TestFormatLogged(t *testing.T) {
	out := formatLogged(timelog.Entry{
		Project:   "acme",
		StartTime: nineAM,
		EndTime:   nineAM.Add(930 * time.Second),
		Tag:       "development",
	})
	assert.True(t, strings.Contains(out, "logged 15:30 on acme"))
	assert.Contains(t, out, "[development]")
}
