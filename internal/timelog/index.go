package timelog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

const (
	ByDateDir    = "by_date"
	ByProjectDir = "by_project"
	lockFileName = ".lock"
	logExt       = ".log"
)

var ErrLocked = errors.New("log directory is locked by another writer")

// FileIndex appends entries to the two flat-file indexes under a root
// directory: by_date/<YYYY-MM-DD>.log and by_project/<project>.log.
type FileIndex struct {
	root string
	log  zerolog.Logger
}

func NewFileIndex(root string, logger zerolog.Logger) *FileIndex {
	return &FileIndex{
		root: root,
		log:  logger.With().Str("component", "file_index").Logger(),
	}
}

func (x *FileIndex) Root() string {
	return x.root
}

// DatePath is the date-indexed file for e, named after its start date.
func (x *FileIndex) DatePath(e Entry) string {
	return filepath.Join(x.root, ByDateDir, e.StartTime.Format(DateLayout)+logExt)
}

// ProjectPath is the project-indexed file for e.
func (x *FileIndex) ProjectPath(e Entry) string {
	return filepath.Join(x.root, ByProjectDir, ProjectFileStem(e.Project)+logExt)
}

// ProjectFileStem maps a project name to a safe file name. Path separators,
// control characters and '%' are percent-encoded, and the names "", "." and
// ".." get reserved encodings, so distinct projects never share a file.
func ProjectFileStem(name string) string {
	switch name {
	case "":
		return "%"
	case ".":
		return "%2E"
	case "..":
		return "%2E%2E"
	}
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '/' || c == '\\' || c == '%' || c < 0x20 || c == 0x7f {
			fmt.Fprintf(&b, "%%%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func (x *FileIndex) ensureDirs() error {
	for _, dir := range []string{ByDateDir, ByProjectDir} {
		if err := os.MkdirAll(filepath.Join(x.root, dir), 0o755); err != nil {
			return fmt.Errorf("creating %s directory: %w", dir, err)
		}
	}
	return nil
}

// Append writes e's line to both indexes while holding the directory lock.
// When the second append fails the first one is rolled back, so the two
// indexes never disagree about an entry.
func (x *FileIndex) Append(e Entry) (err error) {
	if err := x.ensureDirs(); err != nil {
		return err
	}
	unlock, err := x.lock()
	if err != nil {
		return err
	}
	defer func() {
		if uerr := unlock(); uerr != nil && err == nil {
			err = uerr
		}
	}()

	line := e.Line()
	datePath := x.DatePath(e)
	projectPath := x.ProjectPath(e)

	undo, err := appendLine(datePath, line)
	if err != nil {
		return fmt.Errorf("appending to date log: %w", err)
	}
	if _, err := appendLine(projectPath, line); err != nil {
		err = fmt.Errorf("appending to project log: %w", err)
		if rerr := undo(); rerr != nil {
			x.log.Error().Err(rerr).Str("path", datePath).Msg("rollback of date log failed, indexes diverged")
			return errors.Join(err, fmt.Errorf("rolling back date log: %w", rerr))
		}
		x.log.Warn().Str("path", datePath).Msg("rolled back date log after project log failure")
		return err
	}

	x.log.Debug().
		Str("date_log", datePath).
		Str("project_log", projectPath).
		Int64("duration_in_seconds", e.DurationSeconds()).
		Msg("entry appended")
	return nil
}

// appendLine appends line to path and returns a func that restores the file
// to its previous state. A partial write is undone before returning.
func appendLine(path, line string) (func() error, error) {
	var prevSize int64
	existed := true
	info, err := os.Stat(path)
	switch {
	case err == nil:
		prevSize = info.Size()
	case errors.Is(err, fs.ErrNotExist):
		existed = false
	default:
		return nil, err
	}

	undo := func() error {
		if !existed {
			return os.Remove(path)
		}
		return os.Truncate(path, prevSize)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return nil, errors.Join(err, undo())
	}
	if err := f.Close(); err != nil {
		return nil, errors.Join(err, undo())
	}
	return undo, nil
}

// lock takes <root>/.lock, which records the holder's PID. A lock left by a
// process that no longer exists is removed and taken over.
func (x *FileIndex) lock() (func() error, error) {
	path := filepath.Join(x.root, lockFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if errors.Is(err, fs.ErrExist) && x.clearStaleLock(path) {
		f, err = os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	}
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: remove %s if no other worktime is running", ErrLocked, path)
		}
		return nil, fmt.Errorf("creating lock file: %w", err)
	}
	_, werr := f.WriteString(strconv.Itoa(os.Getpid()) + "\n")
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing lock file: %w", werr)
	}
	return func() error {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("removing lock file: %w", err)
		}
		return nil
	}, nil
}

// clearStaleLock removes the lock at path when its recorded PID is gone.
// Unreadable or unparsable locks are left alone.
func (x *FileIndex) clearStaleLock(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 || processAlive(pid) {
		return false
	}
	if err := os.Remove(path); err != nil {
		x.log.Warn().Err(err).Str("path", path).Msg("cannot remove stale lock file")
		return false
	}
	x.log.Warn().Int("pid", pid).Str("path", path).Msg("removed stale lock file")
	return true
}
