package cli

import (
	"context"
	"fmt"
	"io"

	"worktime/internal"
	"worktime/internal/config"
	"worktime/internal/logging"
	"worktime/internal/project"
	"worktime/internal/session"
	"worktime/internal/timelog"
	"worktime/internal/timer"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// App holds the process-level dependencies the commands run against.
type App struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// IsInteractive reports whether In is a terminal. It decides the prompt
	// style when the interface is "auto".
	IsInteractive func() bool
	// Clock stamps entries; nil means time.Now.
	Clock timer.Clock
}

type globalFlags struct {
	configPath string
	logDir     string
	journal    string
	plain      bool
	verbose    bool
}

// NewRootCmd creates the "worktime" command. Run without a subcommand it
// starts an interactive logging session.
func NewRootCmd(app *App) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "worktime",
		Short: "Log units of work to per-date and per-project files",
		Long: `worktime asks for a project, then for a description, tag and ticket per
unit of work, and appends one line per unit to logs/by_date/<date>.log and
logs/by_project/<project>.log. Enter "c" to change project, "q" to quit.

Run with no flags, no config file and WORKTIME_CONFIG unset it behaves as
the plain work-time logger: logs under ./logs and no journal. The flags and
worktime.yaml only add options on top of that.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.setup(flags)
			if err != nil {
				return err
			}
			defer env.close()
			return env.runSession(cmd.Context(), app)
		},
	}
	root.SetIn(app.In)
	root.SetOut(app.Out)
	root.SetErr(app.Err)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default $"+config.EnvConfigPath+" or ./"+config.DefaultFile+")")
	pf.StringVar(&flags.logDir, "log-dir", "", "directory holding by_date/ and by_project/ (default \""+config.DefaultLogDir+"\")")
	pf.StringVar(&flags.journal, "journal", "", "SQLite journal path; enables rebuild")
	pf.BoolVar(&flags.plain, "plain", false, "use plain line prompts even on a terminal")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging on stderr")

	root.AddCommand(
		newRebuildCmd(app, flags),
		newCheckCmd(app, flags),
	)

	return root
}

type environment struct {
	cfg   config.Config
	log   zerolog.Logger
	index *timelog.FileIndex
	repo  *project.Repository
}

func (a *App) setup(flags *globalFlags) (*environment, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.logDir != "" {
		cfg.LogDir = flags.logDir
	}
	if flags.journal != "" {
		cfg.Journal = flags.journal
	}
	if flags.plain {
		cfg.Interface = config.InterfacePlain
	}
	if flags.verbose {
		cfg.LogLevel = "debug"
	}

	logger, err := logging.New(a.Err, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	env := &environment{
		cfg:   cfg,
		log:   logger,
		index: timelog.NewFileIndex(cfg.LogDir, logger),
	}
	if cfg.Journal != "" {
		repo, err := project.NewRepository(cfg.Journal)
		if err != nil {
			return nil, fmt.Errorf("opening journal: %w", err)
		}
		env.repo = repo
	}
	logger.Debug().Str("log_dir", cfg.LogDir).Str("journal", cfg.Journal).Str("interface", cfg.Interface).Msg("configured")
	return env, nil
}

func (e *environment) close() {
	if e.repo == nil {
		return
	}
	if err := e.repo.Close(); err != nil {
		e.log.Warn().Err(err).Msg("closing journal")
	}
}

func (e *environment) store() *timelog.Store {
	if e.repo == nil {
		return timelog.NewStore(e.index, nil, e.log)
	}
	return timelog.NewStore(e.index, e.repo, e.log)
}

func (e *environment) prompter(app *App) session.Prompter {
	useTUI := e.cfg.Interface == config.InterfaceTUI ||
		(e.cfg.Interface == config.InterfaceAuto && app.IsInteractive != nil && app.IsInteractive())
	if !useTUI {
		return session.NewLinePrompter(app.In, app.Out)
	}

	opts := []internal.TUIOption{internal.WithClock(app.Clock)}
	if e.repo != nil {
		opts = append(opts, internal.WithProjectSuggestions(func(ctx context.Context) []string {
			projects, err := e.repo.Projects(ctx)
			if err != nil {
				e.log.Warn().Err(err).Msg("loading project suggestions")
				return nil
			}
			return project.Names(projects)
		}))
	}
	return internal.NewTUIPrompter(app.In, app.Out, opts...)
}

func (e *environment) runSession(ctx context.Context, app *App) error {
	recorder := session.NewRecorder(e.prompter(app), e.store(),
		session.WithClock(app.Clock),
		session.WithLogger(e.log),
	)
	return recorder.Run(ctx)
}
