package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"worktime/internal/timelog"
)

// LinePrompter asks questions on a plain line-oriented console.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// ReadLine prints the prompt label and reads up to the next newline. A final
// line without a newline is still returned; only an empty read yields io.EOF.
func (p *LinePrompter) ReadLine(ctx context.Context, pr Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := fmt.Fprint(p.out, pr.Label); err != nil {
		return "", err
	}

	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return trimLineEnding(line), nil
		}
		return "", err
	}
	return trimLineEnding(line), nil
}

func (p *LinePrompter) Logged(e timelog.Entry) {
	fmt.Fprintf(p.out, "logged %s on %s\n", e.Duration(), e.Project)
}

func trimLineEnding(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
