package timelog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Rebuild rewrites both indexes from entries, in order. Each index file is
// written to a temporary file and renamed into place; index files that no
// entry maps to are removed.
func (x *FileIndex) Rebuild(entries []Entry) (err error) {
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

	files := make(map[string]*strings.Builder)
	var order []string
	add := func(path, line string) {
		sb, ok := files[path]
		if !ok {
			sb = &strings.Builder{}
			files[path] = sb
			order = append(order, path)
		}
		sb.WriteString(line)
	}
	for _, e := range entries {
		line := e.Line()
		add(x.DatePath(e), line)
		add(x.ProjectPath(e), line)
	}

	for _, path := range order {
		if err := writeFileAtomic(path, files[path].String()); err != nil {
			return fmt.Errorf("rewriting %s: %w", path, err)
		}
	}

	for _, dir := range []string{ByDateDir, ByProjectDir} {
		existing, err := filepath.Glob(filepath.Join(x.root, dir, "*"+logExt))
		if err != nil {
			return err
		}
		for _, path := range existing {
			if _, keep := files[path]; keep {
				continue
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("removing stale index %s: %w", path, err)
			}
			x.log.Info().Str("path", path).Msg("removed index file with no journal entries")
		}
	}

	x.log.Info().Int("entries", len(entries)).Int("files", len(order)).Msg("indexes rebuilt")
	return nil
}

func writeFileAtomic(path, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".rebuild-*")
	if err != nil {
		return err
	}
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
