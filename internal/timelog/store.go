package timelog

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Journal is a canonical record of every entry, kept alongside the flat-file
// indexes so they can be rebuilt.
type Journal interface {
	BeginAppend(ctx context.Context, e Entry) (JournalTx, error)
}

// JournalTx is an uncommitted journal append. *sql.Tx satisfies it.
type JournalTx interface {
	Commit() error
	Rollback() error
}

// Store persists entries to the file index and, when configured, the journal.
// The journal append is committed only after both index files were written.
type Store struct {
	index   *FileIndex
	journal Journal
	log     zerolog.Logger
}

// NewStore builds a Store. journal may be nil.
func NewStore(index *FileIndex, journal Journal, logger zerolog.Logger) *Store {
	return &Store{
		index:   index,
		journal: journal,
		log:     logger.With().Str("component", "store").Logger(),
	}
}

// Append persists e.
func (s *Store) Append(ctx context.Context, e Entry) error {
	if e.ClockSkewed() {
		s.log.Warn().
			Str("start_time", e.StartTime.Format(TimestampLayout)).
			Str("end_time", e.EndTime.Format(TimestampLayout)).
			Msg("end time before start time, duration clamped to zero")
	}

	if s.journal == nil {
		return s.index.Append(e)
	}

	tx, err := s.journal.BeginAppend(ctx, e)
	if err != nil {
		return fmt.Errorf("journal append: %w", err)
	}
	if err := s.index.Append(e); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return errors.Join(err, fmt.Errorf("journal rollback: %w", rerr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		s.log.Error().Err(err).Msg("journal commit failed after index append, journal is missing this entry")
		return fmt.Errorf("journal commit: %w", err)
	}
	return nil
}
