package cli

import (
	"errors"
	"fmt"
	"time"

	"worktime/internal/project"

	"github.com/spf13/cobra"
)

var errIndexesDiverged = errors.New("indexes are inconsistent")

func newRebuildCmd(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Regenerate by_date/ and by_project/ from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.setup(flags)
			if err != nil {
				return err
			}
			defer env.close()

			if env.repo == nil {
				return fmt.Errorf("%w: pass --journal or set journal in the config", project.ErrJournalDisabled)
			}
			entries, err := env.repo.AllLogs(cmd.Context())
			if err != nil {
				return fmt.Errorf("reading journal: %w", err)
			}
			if err := env.index.Rebuild(entries); err != nil {
				return fmt.Errorf("rebuilding indexes: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rebuilt %d entries into %s\n", len(entries), env.index.Root())
			return nil
		},
	}
}

func newCheckCmd(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that by_date/ and by_project/ hold the same entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.setup(flags)
			if err != nil {
				return err
			}
			defer env.close()

			report, err := env.index.Check(time.Local)
			if err != nil {
				return fmt.Errorf("checking indexes: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "by_date: %d lines, by_project: %d lines\n", report.DateLines, report.ProjectLines)
			for _, le := range report.Malformed {
				fmt.Fprintf(out, "malformed: %v\n", le)
			}
			for _, le := range report.Misplaced {
				fmt.Fprintf(out, "misplaced: %v\n", le)
			}
			for _, line := range report.OnlyInDate {
				fmt.Fprintf(out, "only in by_date: %s\n", line)
			}
			for _, line := range report.OnlyInProject {
				fmt.Fprintf(out, "only in by_project: %s\n", line)
			}

			if !report.Consistent() {
				return errIndexesDiverged
			}
			fmt.Fprintln(out, "OK")
			return nil
		},
	}
}
