package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mkravets/sdeconv/internal/validate"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type doneMsg struct{}

// Model is a live progress view over driver events: one line per completed
// ε with its empirical sensitivity, a progress bar, failures in red.
type Model struct {
	events <-chan validate.Event

	scenario string
	total    int
	done     int
	lines    []string
	finished bool
}

func NewModel(events <-chan validate.Event) Model {
	return Model{events: events}
}

func (m Model) wait() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return ev
	}
}

func (m Model) Init() tea.Cmd {
	return m.wait()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case validate.Event:
		switch msg.Type {
		case validate.ScenarioStarted:
			m.scenario = msg.Scenario
			m.total = msg.Total
			m.done = 0
			m.lines = m.lines[:0]
		case validate.EpsCompleted:
			m.done++
			m.lines = append(m.lines, fmt.Sprintf("eps=%-10g sensitivity=%.6f", msg.Eps, msg.Estimate.Sensitivity))
		case validate.EpsFailed:
			m.done++
			m.lines = append(m.lines, errStyle.Render(fmt.Sprintf("eps=%-10g %v", msg.Eps, msg.Err)))
		}
		return m, m.wait()

	case doneMsg:
		m.finished = true
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("sdeconv: %s", m.scenario)))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("progress "))
	b.WriteString(valueStyle.Render(progressBar(m.done, m.total, 30)))
	b.WriteString(valueStyle.Render(fmt.Sprintf(" %d/%d", m.done, m.total)))
	b.WriteString("\n\n")

	for _, line := range m.lines {
		b.WriteString("  " + line + "\n")
	}

	if !m.finished {
		b.WriteString(helpStyle.Render("q to quit"))
	}
	return b.String()
}

func progressBar(done, total, width int) string {
	if total <= 0 {
		return strings.Repeat("░", width)
	}
	filled := done * width / total
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
