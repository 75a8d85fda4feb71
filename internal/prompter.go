package internal

import (
	"context"
	"errors"
	"fmt"
	"io"

	"worktime/internal/session"
	"worktime/internal/timelog"
	"worktime/internal/timer"

	tea "github.com/charmbracelet/bubbletea"
)

// TUIPrompter answers session prompts with a small bubbletea program per
// question.
type TUIPrompter struct {
	in      io.Reader
	out     io.Writer
	clock   timer.Clock
	suggest func(ctx context.Context) []string
}

type TUIOption func(*TUIPrompter)

func WithClock(clock timer.Clock) TUIOption {
	return func(p *TUIPrompter) {
		p.clock = clock
	}
}

// WithProjectSuggestions offers completions on the project prompt.
func WithProjectSuggestions(suggest func(ctx context.Context) []string) TUIOption {
	return func(p *TUIPrompter) {
		p.suggest = suggest
	}
}

func NewTUIPrompter(in io.Reader, out io.Writer, opts ...TUIOption) *TUIPrompter {
	p := &TUIPrompter{in: in, out: out}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *TUIPrompter) ReadLine(ctx context.Context, pr session.Prompt) (string, error) {
	var suggestions []string
	if pr.Field == session.FieldProject && p.suggest != nil {
		suggestions = p.suggest(ctx)
	}

	m := NewPromptModel(pr, p.clock, suggestions)
	prog := tea.NewProgram(m,
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
		tea.WithContext(ctx),
	)

	final, err := prog.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("running prompt: %w", err)
	}

	pm, ok := final.(*PromptModel)
	if !ok {
		return "", errors.New("unexpected prompt model")
	}
	if !pm.Submitted() {
		return "", session.ErrInterrupted
	}
	return pm.Value(), nil
}

func (p *TUIPrompter) Logged(e timelog.Entry) {
	fmt.Fprintln(p.out, formatLogged(e))
}
