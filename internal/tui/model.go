// Package tui is the project picker shown by `tctrl open` without a path.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
)

// ErrAborted is returned by Pick when the user leaves without choosing.
var ErrAborted = errors.New("no project selected")

type match struct {
	Path    string
	Indexes []int // matched positions in Path
}

type Model struct {
	projects      []string
	filtered      []match
	cursor        int
	scrollOffset  int
	input         textinput.Model
	width, height int
	Selected      string // set when user confirms a project
	quitting      bool
}

func NewModel(projects []string) Model {
	ti := textinput.New()
	ti.Placeholder = "Type to filter projects..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 60

	m := Model{
		projects: projects,
		input:    ti,
	}
	m.applyFilter()
	return m
}

// Pick runs the picker full-screen and returns the chosen path.
func Pick(projects []string) (string, error) {
	if len(projects) == 0 {
		return "", fmt.Errorf("list_projects returned no projects")
	}

	p := tea.NewProgram(NewModel(projects), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("TUI error: %w", err)
	}

	final := finalModel.(Model)
	if final.Selected == "" {
		return "", ErrAborted
	}
	return final.Selected, nil
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		m.ensureCursorVisible()
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.CtrlC) {
		m.quitting = true
		return m, tea.Quit
	}

	// Escape clears the filter first, then quits
	if key.Matches(msg, keys.Escape) {
		if m.input.Value() != "" {
			m.input.SetValue("")
			m.applyFilter()
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}

	if key.Matches(msg, keys.Up) {
		if m.cursor > 0 {
			m.cursor--
			m.ensureCursorVisible()
		}
		return m, nil
	}
	if key.Matches(msg, keys.Down) {
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
			m.ensureCursorVisible()
		}
		return m, nil
	}

	if key.Matches(msg, keys.Enter) {
		sel := m.selectedProject()
		if sel == "" {
			return m, nil
		}
		m.Selected = sel
		m.quitting = true
		return m, tea.Quit
	}

	// Default: update text input and refilter
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if m.cursor > 0 {
			m.cursor--
			m.ensureCursorVisible()
		}
	case tea.MouseButtonWheelDown:
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
			m.ensureCursorVisible()
		}
	}
	return m, nil
}

// applyFilter ranks projects against the query; an empty query keeps the
// caller's order.
func (m *Model) applyFilter() {
	query := strings.TrimSpace(m.input.Value())
	m.filtered = nil
	if query == "" {
		for _, p := range m.projects {
			m.filtered = append(m.filtered, match{Path: p})
		}
	} else {
		for _, r := range fuzzy.Find(query, m.projects) {
			m.filtered = append(m.filtered, match{Path: r.Str, Indexes: r.MatchedIndexes})
		}
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
	m.ensureCursorVisible()
}

// maxVisible is the number of rows that fit below the title and input.
func (m Model) maxVisible() int {
	if m.height == 0 {
		return len(m.filtered)
	}
	return max(1, min(len(m.filtered), m.height-6))
}

func (m *Model) ensureCursorVisible() {
	maxVis := m.maxVisible()
	if maxVis <= 0 {
		m.scrollOffset = 0
		return
	}
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+maxVis {
		m.scrollOffset = m.cursor - maxVis + 1
	}
	// Clamp scrollOffset
	maxOffset := max(0, len(m.filtered)-maxVis)
	if m.scrollOffset > maxOffset {
		m.scrollOffset = maxOffset
	}
}

func (m Model) selectedProject() string {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return ""
	}
	return m.filtered[m.cursor].Path
}
