package timelog

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
	commitErr  error
}

func (tx *fakeTx) Commit() error {
	tx.committed = true
	return tx.commitErr
}

func (tx *fakeTx) Rollback() error {
	tx.rolledBack = true
	return nil
}

type fakeJournal struct {
	tx       *fakeTx
	beginErr error
	entries  []Entry
}

func (j *fakeJournal) BeginAppend(_ context.Context, e Entry) (JournalTx, error) {
	if j.beginErr != nil {
		return nil, j.beginErr
	}
	j.entries = append(j.entries, e)
	return j.tx, nil
}

func TestStoreAppendWithoutJournal(t *testing.T) {
	idx := newTestIndex(t)
	store := NewStore(idx, nil, zerolog.Nop())

	require.NoError(t, store.Append(context.Background(), acmeEntry()))
	assert.Equal(t, acmeEntry().Line(), readFile(t, idx.ProjectPath(acmeEntry())))
}

func TestStoreAppendCommitsJournal(t *testing.T) {
	idx := newTestIndex(t)
	journal := &fakeJournal{tx: &fakeTx{}}
	store := NewStore(idx, journal, zerolog.Nop())

	require.NoError(t, store.Append(context.Background(), acmeEntry()))

	assert.True(t, journal.tx.committed)
	assert.False(t, journal.tx.rolledBack)
	assert.Equal(t, []Entry{acmeEntry()}, journal.entries)
}

func TestStoreAppendRollsBackJournalOnIndexFailure(t *testing.T) {
	idx := newTestIndex(t)
	e := acmeEntry()
	require.NoError(t, os.MkdirAll(idx.ProjectPath(e), 0o755))
	journal := &fakeJournal{tx: &fakeTx{}}
	store := NewStore(idx, journal, zerolog.Nop())

	require.Error(t, store.Append(context.Background(), e))

	assert.True(t, journal.tx.rolledBack)
	assert.False(t, journal.tx.committed)
}

func TestStoreAppendJournalBeginFails(t *testing.T) {
	idx := newTestIndex(t)
	boom := errors.New("disk full")
	store := NewStore(idx, &fakeJournal{beginErr: boom}, zerolog.Nop())

	err := store.Append(context.Background(), acmeEntry())
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))

	_, statErr := os.Stat(idx.DatePath(acmeEntry()))
	assert.True(t, os.IsNotExist(statErr), "indexes must not be written when the journal refuses")
}

func TestStoreAppendCommitFailure(t *testing.T) {
	idx := newTestIndex(t)
	boom := errors.New("database is locked")
	store := NewStore(idx, &fakeJournal{tx: &fakeTx{commitErr: boom}}, zerolog.Nop())

	err := store.Append(context.Background(), acmeEntry())
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
}
