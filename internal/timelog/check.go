package timelog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// LineError locates a line that could not be parsed.
type LineError struct {
	Path string
	Line int
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

// Report is the result of comparing the date and project indexes.
type Report struct {
	DateLines    int
	ProjectLines int
	Malformed    []LineError
	// Misplaced lists lines stored in a file their entry does not map to.
	Misplaced []LineError
	// OnlyInDate and OnlyInProject hold lines present in one index but not
	// the other, one element per missing occurrence.
	OnlyInDate    []string
	OnlyInProject []string
}

// Consistent reports whether both indexes hold the same well-formed lines.
func (r Report) Consistent() bool {
	return len(r.Malformed) == 0 && len(r.Misplaced) == 0 &&
		len(r.OnlyInDate) == 0 && len(r.OnlyInProject) == 0
}

// Check reads both indexes and compares them line by line.
func (x *FileIndex) Check(loc *time.Location) (Report, error) {
	var report Report

	dateLines, err := x.scanDir(ByDateDir, loc, &report, x.DatePath)
	if err != nil {
		return report, err
	}
	projectLines, err := x.scanDir(ByProjectDir, loc, &report, x.ProjectPath)
	if err != nil {
		return report, err
	}

	for line, n := range dateLines {
		report.DateLines += n
		for i := projectLines[line]; i < n; i++ {
			report.OnlyInDate = append(report.OnlyInDate, line)
		}
	}
	for line, n := range projectLines {
		report.ProjectLines += n
		for i := dateLines[line]; i < n; i++ {
			report.OnlyInProject = append(report.OnlyInProject, line)
		}
	}
	sort.Strings(report.OnlyInDate)
	sort.Strings(report.OnlyInProject)
	return report, nil
}

func (x *FileIndex) scanDir(dir string, loc *time.Location, report *Report, want func(Entry) string) (map[string]int, error) {
	paths, err := filepath.Glob(filepath.Join(x.root, dir, "*"+logExt))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	lines := make(map[string]int)
	for _, path := range paths {
		err := readLines(path, func(n int, line string) {
			e, _, perr := ParseLine(line, loc)
			if perr != nil {
				report.Malformed = append(report.Malformed, LineError{Path: path, Line: n, Err: perr})
				return
			}
			if want(e) != path {
				report.Misplaced = append(report.Misplaced, LineError{
					Path: path,
					Line: n,
					Err:  fmt.Errorf("entry belongs in %s", want(e)),
				})
			}
			lines[strings.TrimSuffix(line, "\n")]++
		})
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}
	return lines, nil
}

func readLines(path string, fn func(n int, line string)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for n := 1; ; n++ {
		line, err := r.ReadString('\n')
		if line != "" {
			fn(n, line)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
