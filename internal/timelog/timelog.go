package timelog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is how start_time and end_time are rendered in a log line.
const TimestampLayout = "2006-01-02 15:04:05"

// DateLayout names the date-indexed log files.
const DateLayout = "2006-01-02"

var ErrMalformedLine = errors.New("malformed log line")

// Entry is one logged unit of work.
type Entry struct {
	Project     string
	StartTime   time.Time
	EndTime     time.Time
	Tag         string
	Ticket      string
	Description string
}

// Duration is the whole-second difference between end and start, clamped to
// zero when the clock moved backwards.
func (e Entry) Duration() time.Duration {
	d := e.EndTime.Truncate(time.Second).Sub(e.StartTime.Truncate(time.Second))
	return max(d, 0)
}

// DurationSeconds is Duration as written in duration_in_seconds.
func (e Entry) DurationSeconds() int64 {
	return int64(e.Duration() / time.Second)
}

// ClockSkewed reports whether the entry ends before it starts.
func (e Entry) ClockSkewed() bool {
	return e.EndTime.Truncate(time.Second).Before(e.StartTime.Truncate(time.Second))
}

var fieldKeys = [...]string{
	"project",
	"start_time",
	"end_time",
	"duration_in_seconds",
	"tag",
	"ticket",
	"description",
}

// Line renders the entry as a single tab-separated key=value line with a
// trailing newline. Free-text fields are escaped so the result never contains
// a tab or newline outside the separators.
func (e Entry) Line() string {
	values := [...]string{
		Escape(e.Project),
		e.StartTime.Format(TimestampLayout),
		e.EndTime.Format(TimestampLayout),
		strconv.FormatInt(e.DurationSeconds(), 10),
		Escape(e.Tag),
		Escape(e.Ticket),
		Escape(e.Description),
	}

	var sb strings.Builder
	for i, key := range fieldKeys {
		if i > 0 {
			sb.WriteByte('\t')
		}
		sb.WriteString(key)
		sb.WriteByte('=')
		sb.WriteString(values[i])
	}
	sb.WriteByte('\n')
	return sb.String()
}

// ParseLine decodes a line produced by Line. Timestamps are read in loc; the
// trailing newline is optional. The returned duration is the value stored in
// the line, which may differ from the entry's computed duration for lines
// written by other tools.
func ParseLine(line string, loc *time.Location) (Entry, int64, error) {
	line = strings.TrimSuffix(line, "\n")
	parts := strings.Split(line, "\t")
	if len(parts) != len(fieldKeys) {
		return Entry{}, 0, fmt.Errorf("%w: want %d fields, got %d", ErrMalformedLine, len(fieldKeys), len(parts))
	}

	values := make([]string, len(parts))
	for i, part := range parts {
		key, value, ok := strings.Cut(part, "=")
		if !ok || key != fieldKeys[i] {
			return Entry{}, 0, fmt.Errorf("%w: field %d: want key %q", ErrMalformedLine, i+1, fieldKeys[i])
		}
		values[i] = value
	}

	var e Entry
	var err error
	if e.Project, err = Unescape(values[0]); err != nil {
		return Entry{}, 0, fmt.Errorf("%w: project: %v", ErrMalformedLine, err)
	}
	if e.StartTime, err = time.ParseInLocation(TimestampLayout, values[1], loc); err != nil {
		return Entry{}, 0, fmt.Errorf("%w: start_time: %v", ErrMalformedLine, err)
	}
	if e.EndTime, err = time.ParseInLocation(TimestampLayout, values[2], loc); err != nil {
		return Entry{}, 0, fmt.Errorf("%w: end_time: %v", ErrMalformedLine, err)
	}
	seconds, err := strconv.ParseInt(values[3], 10, 64)
	if err != nil {
		return Entry{}, 0, fmt.Errorf("%w: duration_in_seconds: %v", ErrMalformedLine, err)
	}
	if e.Tag, err = Unescape(values[4]); err != nil {
		return Entry{}, 0, fmt.Errorf("%w: tag: %v", ErrMalformedLine, err)
	}
	if e.Ticket, err = Unescape(values[5]); err != nil {
		return Entry{}, 0, fmt.Errorf("%w: ticket: %v", ErrMalformedLine, err)
	}
	if e.Description, err = Unescape(values[6]); err != nil {
		return Entry{}, 0, fmt.Errorf("%w: description: %v", ErrMalformedLine, err)
	}
	return e, seconds, nil
}
