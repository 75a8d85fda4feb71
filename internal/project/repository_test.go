package project

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"worktime/internal/timelog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}

func entry(project, description string, start time.Time, minutes int) timelog.Entry {
	return timelog.Entry{
		Project:     project,
		StartTime:   start,
		EndTime:     start.Add(time.Duration(minutes) * time.Minute),
		Tag:         "development",
		Ticket:      "JIRA-42",
		Description: description,
	}
}

func TestRepositoryBeginAppendCommit(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	start := time.Date(2024, 1, 5, 9, 0, 0, 0, time.Local)

	first := entry("acme", "fix bug", start, 15)
	second := entry("acme", "line one\nline two", start.Add(time.Hour), 5)

	for _, e := range []timelog.Entry{first, second} {
		tx, err := repo.BeginAppend(ctx, e)
		require.NoError(t, err)
		require.NoError(t, tx.Commit())
	}

	logs, err := repo.AllLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, first.Line(), logs[0].Line(), "journal must reproduce the exact index line")
	assert.Equal(t, second.Line(), logs[1].Line())
	assert.Equal(t, "line one\nline two", logs[1].Description)
}

func TestRepositoryBeginAppendRollback(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	tx, err := repo.BeginAppend(ctx, entry("acme", "fix bug", time.Now(), 1))
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	logs, err := repo.AllLogs(ctx)
	require.NoError(t, err)
	assert.Empty(t, logs)

	projects, err := repo.Projects(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects, "the project upsert belongs to the rolled back transaction")
}

func TestRepositoryProjects(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	start := time.Date(2024, 1, 5, 9, 0, 0, 0, time.Local)

	for i, name := range []string{"acme", "globex", "acme"} {
		tx, err := repo.BeginAppend(ctx, entry(name, "work", start.Add(time.Duration(i)*time.Hour), 10))
		require.NoError(t, err)
		require.NoError(t, tx.Commit())
	}

	projects, err := repo.Projects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, []string{"acme", "globex"}, Names(projects))
	assert.Equal(t, 2, projects[0].Entries)
	assert.Equal(t, 1, projects[1].Entries)
	assert.True(t, projects[0].LastLogged.Equal(start.Add(2*time.Hour+10*time.Minute)))
}

func TestNewRepositoryCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.db")

	repo, err := NewRepository(path)
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	reopened, err := NewRepository(path)
	require.NoError(t, err)
	assert.NoError(t, reopened.Close())
}
