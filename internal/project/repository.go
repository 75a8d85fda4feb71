package project

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"worktime/internal/timelog"

	_ "modernc.org/sqlite"
)

// Repository is the SQLite journal. Every entry written to the flat-file
// indexes is also recorded here, so the indexes can be regenerated.
type Repository struct {
	db *sql.DB
}

// NewRepository opens (creating if needed) the journal at path. Use
// ":memory:" for a throwaway database.
func NewRepository(path string) (*Repository, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps ":memory:" databases alive and serialises writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	repo := &Repository{db: db}
	if err := repo.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialising journal: %w", err)
	}

	return repo, nil
}

func (r *Repository) init() error {
	if _, err := r.db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return err
	}

	projectsQuery := `
	CREATE TABLE IF NOT EXISTS projects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL
	)
	`
	if _, err := r.db.Exec(projectsQuery); err != nil {
		return err
	}

	timeLogsQuery := `
	CREATE TABLE IF NOT EXISTS time_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL,
		started_at TEXT NOT NULL,
		ended_at TEXT NOT NULL,
		duration INTEGER NOT NULL,
		tag TEXT NOT NULL DEFAULT '',
		ticket TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
	)
	`
	_, err := r.db.Exec(timeLogsQuery)
	return err
}

// BeginAppend records e inside a transaction the caller must commit or roll
// back.
func (r *Repository) BeginAppend(ctx context.Context, e timelog.Entry) (timelog.JournalTx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO projects (name, created_at) VALUES (?, ?) ON CONFLICT(name) DO NOTHING",
		e.Project, time.Now().Format(time.RFC3339),
	); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("upserting project: %w", err)
	}

	var projectID int64
	if err := tx.QueryRowContext(ctx, "SELECT id FROM projects WHERE name = ?", e.Project).Scan(&projectID); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("looking up project: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO time_logs (project_id, started_at, ended_at, duration, tag, ticket, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		projectID,
		e.StartTime.Format(time.RFC3339),
		e.EndTime.Format(time.RFC3339),
		e.DurationSeconds(),
		e.Tag,
		e.Ticket,
		e.Description,
	); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("inserting time log: %w", err)
	}

	return tx, nil
}

// AllLogs returns every journaled entry in the order it was recorded.
func (r *Repository) AllLogs(ctx context.Context) ([]timelog.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.name, tl.started_at, tl.ended_at, tl.tag, tl.ticket, tl.description
		 FROM time_logs tl
		 JOIN projects p ON tl.project_id = p.id
		 ORDER BY tl.id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []timelog.Entry
	for rows.Next() {
		var e timelog.Entry
		var startedAt, endedAt string
		if err := rows.Scan(&e.Project, &startedAt, &endedAt, &e.Tag, &e.Ticket, &e.Description); err != nil {
			return nil, err
		}
		if e.StartTime, err = time.Parse(time.RFC3339, startedAt); err != nil {
			return nil, fmt.Errorf("parsing started_at: %w", err)
		}
		if e.EndTime, err = time.Parse(time.RFC3339, endedAt); err != nil {
			return nil, fmt.Errorf("parsing ended_at: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Projects lists journaled projects, most recently logged first.
func (r *Repository) Projects(ctx context.Context) ([]Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.name, COUNT(tl.id), COALESCE(MAX(tl.ended_at), '')
		 FROM projects p
		 LEFT JOIN time_logs tl ON tl.project_id = p.id
		 GROUP BY p.id
		 ORDER BY COALESCE(MAX(tl.id), 0) DESC, p.name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		var lastLogged string
		if err := rows.Scan(&p.ID, &p.Name, &p.Entries, &lastLogged); err != nil {
			return nil, err
		}
		if lastLogged != "" {
			p.LastLogged, _ = time.Parse(time.RFC3339, lastLogged)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *Repository) Close() error {
	return r.db.Close()
}
