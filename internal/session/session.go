// Package session runs the interactive work-time logging loop: it asks for a
// project, then for a description, tag and ticket per unit of work, and hands
// each finished entry to a Persister.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"worktime/internal/timelog"
	"worktime/internal/timer"

	"github.com/rs/zerolog"
)

// Reserved description inputs.
const (
	ChangeProjectToken = "c"
	QuitToken          = "q"
)

const (
	ProjectPrompt     = "Your Current Project > "
	DescriptionPrompt = "Add an description for the task or step, when it's done, " +
		"type `" + ChangeProjectToken + "` for changing projects, " +
		"type `" + QuitToken + "` for quitting \n >> "
	TagPrompt    = "Add a Tag of your current task e.g. meeting or development > "
	TicketPrompt = "Add a Ticket ID or Link of your current task > "
)

// ErrInterrupted is returned by a Prompter when the user aborts input. The
// session treats it like the quit token.
var ErrInterrupted = errors.New("input interrupted")

// Field identifies what a prompt asks for.
type Field int

const (
	FieldProject Field = iota
	FieldDescription
	FieldTag
	FieldTicket
)

func (f Field) String() string {
	switch f {
	case FieldProject:
		return "project"
	case FieldDescription:
		return "description"
	case FieldTag:
		return "tag"
	case FieldTicket:
		return "ticket"
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// Prompt is one question put to the user.
type Prompt struct {
	Field Field
	Label string
	// Project is the current project; empty while asking for one.
	Project string
	// StartedAt is when the unit of work being described began; zero for the
	// project prompt.
	StartedAt time.Time
}

// Prompter reads one line of input in answer to a prompt. It returns io.EOF
// when input is exhausted and ErrInterrupted when the user aborts.
type Prompter interface {
	ReadLine(ctx context.Context, p Prompt) (string, error)
}

// Notifier is implemented by prompters that can confirm a logged entry.
type Notifier interface {
	Logged(e timelog.Entry)
}

// Persister stores a finished entry.
type Persister interface {
	Append(ctx context.Context, e timelog.Entry) error
}

// State is a step of the session loop.
type State int

const (
	AwaitingProject State = iota
	AwaitingDescription
	AwaitingTag
	AwaitingTicket
	Persisting
	Terminated
)

func (s State) String() string {
	switch s {
	case AwaitingProject:
		return "awaiting_project"
	case AwaitingDescription:
		return "awaiting_description"
	case AwaitingTag:
		return "awaiting_tag"
	case AwaitingTicket:
		return "awaiting_ticket"
	case Persisting:
		return "persisting"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Recorder is the interactive logging session.
type Recorder struct {
	prompter Prompter
	store    Persister
	clock    timer.Clock
	log      zerolog.Logger
}

type Option func(*Recorder)

// WithClock replaces time.Now as the source of start and end times.
func WithClock(clock timer.Clock) Option {
	return func(r *Recorder) {
		r.clock = clock
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(r *Recorder) {
		r.log = logger
	}
}

func NewRecorder(prompter Prompter, store Persister, opts ...Option) *Recorder {
	r := &Recorder{
		prompter: prompter,
		store:    store,
		clock:    time.Now,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.With().Str("component", "session").Logger()
	return r
}

// Run drives the session until the user quits, input ends, ctx is cancelled
// or persisting an entry fails. Quitting and end of input return nil.
//
// The end time is taken after the tag and ticket prompts, so a logged
// duration includes the time spent answering them.
func (r *Recorder) Run(ctx context.Context) error {
	var (
		project     string
		description string
		tag         string
		ticket      string
		err         error
	)
	watch := timer.New(r.clock)
	state := AwaitingProject

	for state != Terminated {
		r.log.Debug().Stringer("state", state).Str("project", project).Msg("session step")

		switch state {
		case AwaitingProject:
			project, err = r.prompter.ReadLine(ctx, Prompt{Field: FieldProject, Label: ProjectPrompt})
			if err != nil {
				return r.finish(err)
			}
			state = AwaitingDescription

		case AwaitingDescription:
			startedAt := watch.Start()
			description, err = r.prompter.ReadLine(ctx, Prompt{
				Field:     FieldDescription,
				Label:     DescriptionPrompt,
				Project:   project,
				StartedAt: startedAt,
			})
			if err != nil {
				return r.finish(err)
			}
			switch description {
			case ChangeProjectToken:
				project = ""
				state = AwaitingProject
			case QuitToken:
				state = Terminated
			default:
				state = AwaitingTag
			}

		case AwaitingTag:
			tag, err = r.prompter.ReadLine(ctx, Prompt{
				Field:     FieldTag,
				Label:     TagPrompt,
				Project:   project,
				StartedAt: watch.StartedAt(),
			})
			if err != nil {
				return r.finish(err)
			}
			state = AwaitingTicket

		case AwaitingTicket:
			ticket, err = r.prompter.ReadLine(ctx, Prompt{
				Field:     FieldTicket,
				Label:     TicketPrompt,
				Project:   project,
				StartedAt: watch.StartedAt(),
			})
			if err != nil {
				return r.finish(err)
			}
			state = Persisting

		case Persisting:
			entry := timelog.Entry{
				Project:     project,
				StartTime:   watch.StartedAt(),
				EndTime:     watch.Stop(),
				Tag:         tag,
				Ticket:      ticket,
				Description: description,
			}
			if err := r.store.Append(ctx, entry); err != nil {
				return fmt.Errorf("persisting entry: %w", err)
			}
			if n, ok := r.prompter.(Notifier); ok {
				n.Logged(entry)
			}
			state = AwaitingDescription
		}
	}

	r.log.Debug().Msg("session ended")
	return nil
}

func (r *Recorder) finish(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, ErrInterrupted) {
		r.log.Debug().Err(err).Msg("input closed, ending session")
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("reading input: %w", err)
}
