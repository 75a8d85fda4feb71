package internal

import (
	"fmt"
	"strings"
	"time"

	"worktime/internal/timelog"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	projectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true)

	timerRunningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82")).
				Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170"))

	answeredStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	logTagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170"))
)

func formatDuration(d time.Duration) string {
	total := int(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

func (m *PromptModel) View() string {
	if m.done() {
		return m.answeredView()
	}

	var sb strings.Builder
	sb.WriteString(m.headerView())
	sb.WriteString("\n")
	for _, line := range m.labelLines() {
		sb.WriteString(labelStyle.Render(line))
		sb.WriteString("\n")
	}
	sb.WriteString(m.Input.View())
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render(m.helpText()))
	sb.WriteString("\n")
	return sb.String()
}

func (m *PromptModel) headerView() string {
	header := titleStyle.Render("worktime")
	if m.Prompt.Project != "" {
		header += " " + projectStyle.Render(m.Prompt.Project)
	}
	if m.Watch != nil {
		header += " " + timerRunningStyle.Render("● "+formatDuration(m.Watch.Elapsed()))
	}
	return header
}

func (m *PromptModel) helpText() string {
	if m.Input.ShowSuggestions {
		return "Enter: Submit | Tab: Complete | Esc: Quit"
	}
	return "Enter: Submit | Esc: Quit"
}

// answeredView is left on screen once the program exits, so earlier answers
// stay visible as a transcript.
func (m *PromptModel) answeredView() string {
	if m.interrupted {
		return ""
	}
	return answeredStyle.Render(fmt.Sprintf("%s: %s", m.Prompt.Field, m.value)) + "\n"
}

func formatLogged(e timelog.Entry) string {
	tag := ""
	if e.Tag != "" {
		tag = " " + logTagStyle.Render("["+e.Tag+"]")
	}
	return noticeStyle.Render(fmt.Sprintf("logged %s on %s", formatDuration(e.Duration()), e.Project)) + tag
}
