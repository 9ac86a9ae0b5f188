// internal/ui/progress.go

// Package ui provides progress display for license scans.
package ui

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

// IsTTY returns true if stderr is a terminal.
func IsTTY() bool {
	return term.IsTerminal(os.Stderr.Fd())
}

// --- Plain text fallback ---

// PlainProgress prints progress messages to a callback function.
// Used when stderr is not a TTY (e.g., piped output).
type PlainProgress struct {
	print func(string)
}

// NewPlainProgress creates a new PlainProgress with the given print callback.
func NewPlainProgress(print func(string)) *PlainProgress {
	return &PlainProgress{print: print}
}

// Update prints a progress message for a scanned file. license is empty
// when nothing was identified.
func (p *PlainProgress) Update(completed, total int, path, license string) {
	if license == "" {
		p.print(fmt.Sprintf("[%d/%d] %s", completed, total, path))
		return
	}
	p.print(fmt.Sprintf("[%d/%d] %s: %s", completed, total, path, license))
}

// Done prints a completion message.
func (p *PlainProgress) Done(files, unknown int) {
	p.print(doneText(files, unknown))
}

func doneText(files, unknown int) string {
	return fmt.Sprintf("Done! Scanned %d files, %d unrecognized.", files, unknown)
}

// --- TUI progress ---

// ProgressMsg is sent to the bubbletea program when a file is scanned.
// License is empty when nothing was identified.
type ProgressMsg struct {
	Completed int
	Total     int
	Path      string
	License   string
}

// DoneMsg is sent to the bubbletea program when the scan is finished. Err
// is set when the scan failed.
type DoneMsg struct {
	Files   int
	Unknown int
	Err     error
}

type model struct {
	progress  progress.Model
	completed int
	total     int
	path      string
	found     map[string]int
	done      *DoneMsg
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	foundStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

// NewTUIModel creates a new bubbletea model for the progress TUI.
func NewTUIModel(total int) model {
	return model{
		progress: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(50),
			progress.WithoutPercentage(),
		),
		total: total,
		found: map[string]int{},
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.progress.Width = msg.Width - 10
		if m.progress.Width > 60 {
			m.progress.Width = 60
		}
	case ProgressMsg:
		m.completed = msg.Completed
		m.total = msg.Total
		m.path = msg.Path
		if msg.License != "" {
			m.found[msg.License]++
		}
		pct := 1.0
		if m.total > 0 {
			pct = float64(m.completed) / float64(m.total)
		}
		return m, m.progress.SetPercent(pct)
	case DoneMsg:
		m.done = &msg
		return m, tea.Quit
	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	if m.done != nil {
		if m.done.Err != nil {
			return fmt.Sprintf("\n  %s\n\n", errorStyle.Render("Scan failed: "+m.done.Err.Error()))
		}
		return fmt.Sprintf("\n  %s\n\n", titleStyle.Render(doneText(m.done.Files, m.done.Unknown)))
	}

	pad := strings.Repeat(" ", 2)
	counter := infoStyle.Render(fmt.Sprintf("%d/%d", m.completed, m.total))
	desc := m.path
	if desc == "" {
		desc = "Starting..."
	}

	view := "\n" +
		pad + titleStyle.Render("Identifying licenses") + "\n" +
		pad + m.progress.View() + "  " + counter + "\n" +
		pad + infoStyle.Render(desc) + "\n"
	if len(m.found) > 0 {
		view += pad + foundStyle.Render(tally(m.found)) + "\n"
	}
	return view + "\n"
}

// tally renders license counts as "MIT 3, Apache-2.0 1", largest first.
func tally(found map[string]int) string {
	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if found[names[i]] != found[names[j]] {
			return found[names[i]] > found[names[j]]
		}
		return names[i] < names[j]
	})
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s %d", name, found[name])
	}
	return strings.Join(parts, ", ")
}

// RunTUI creates and returns a bubbletea program for the progress TUI.
// The program outputs to stderr so report output on stdout stays clean.
func RunTUI(total int) *tea.Program {
	m := NewTUIModel(total)
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))
	return p
}
