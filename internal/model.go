package internal

import (
	"strings"
	"time"

	"worktime/internal/session"
	"worktime/internal/timer"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type MsgTick struct{}

// PromptModel asks a single session question. While a unit of work is being
// described it shows the time elapsed since the work started.
type PromptModel struct {
	Prompt session.Prompt
	Input  textinput.Model
	Watch  *timer.Stopwatch // nil for the project prompt

	submitted   bool
	interrupted bool
	value       string
}

func NewPromptModel(p session.Prompt, clock timer.Clock, suggestions []string) *PromptModel {
	in := textinput.New()
	in.Prompt = "> "
	in.PromptStyle = inputStyle
	in.Cursor.Style = inputStyle
	in.Focus()
	if p.Field == session.FieldProject && len(suggestions) > 0 {
		in.ShowSuggestions = true
		in.SetSuggestions(suggestions)
	}

	m := &PromptModel{Prompt: p, Input: in}
	if !p.StartedAt.IsZero() {
		m.Watch = timer.NewAt(clock, p.StartedAt)
	}
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return MsgTick{}
	})
}

func (m *PromptModel) Init() tea.Cmd {
	if m.Watch != nil {
		return tea.Batch(textinput.Blink, tick())
	}
	return textinput.Blink
}

func (m *PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MsgTick:
		if m.done() {
			return m, nil
		}
		return m, tick()
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.Input.Width = max(msg.Width-len(m.Input.Prompt)-1, 0)
		return m, nil
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m *PromptModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.done() {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.interrupted = true
		m.Input.Blur()
		return m, tea.Quit
	case tea.KeyEnter:
		m.value = m.Input.Value()
		m.submitted = true
		m.Input.Blur()
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m *PromptModel) done() bool {
	return m.submitted || m.interrupted
}

// Value is the submitted answer.
func (m *PromptModel) Value() string {
	return m.value
}

func (m *PromptModel) Submitted() bool {
	return m.submitted
}

func (m *PromptModel) Interrupted() bool {
	return m.interrupted
}

// labelLines splits the prompt label into display lines, dropping the
// trailing input marker the plain console prompts carry.
func (m *PromptModel) labelLines() []string {
	var lines []string
	for _, line := range strings.Split(m.Prompt.Label, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(line, ">>"), ">"))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
