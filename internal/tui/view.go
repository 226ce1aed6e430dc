package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Adaptive colors for light/dark terminal backgrounds
	accentColor = lipgloss.AdaptiveColor{Light: "#D6249F", Dark: "#FF79C6"}
	dimColor    = lipgloss.AdaptiveColor{Light: "#777777", Dark: "#6272A4"}
	hlBgColor   = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#333333"}
	cyanColor   = lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#8BE9FD"}

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			PaddingLeft(1)

	cursorStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	selectedRowStyle = lipgloss.NewStyle().
				Background(hlBgColor)

	matchStyle = lipgloss.NewStyle().
			Foreground(cyanColor).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			PaddingLeft(1)

	inputLabelStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)
)

// shortenPath replaces $HOME with ~ and reports how many bytes were cut
// from the front so match indexes can be shifted.
func shortenPath(path string) (string, int) {
	home, _ := os.UserHomeDir()
	if home != "" && strings.HasPrefix(path, home+"/") {
		return "~" + path[len(home):], len(home) - 1
	}
	return path, 0
}

// highlight renders path with the matched positions emphasised.
func highlight(m match) string {
	display, shift := shortenPath(m.Path)
	if len(m.Indexes) == 0 {
		return display
	}

	hit := make(map[int]bool, len(m.Indexes))
	for _, i := range m.Indexes {
		hit[i-shift] = true
	}
	var b strings.Builder
	for i, r := range display {
		if hit[i] && (shift == 0 || i > 0) {
			b.WriteString(matchStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("tctrl"))
	b.WriteString("\n\n")

	b.WriteString(" ")
	b.WriteString(inputLabelStyle.Render("> "))
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if len(m.filtered) == 0 {
		b.WriteString("  No matching projects.\n")
	} else {
		end := min(len(m.filtered), m.scrollOffset+m.maxVisible())
		for i := m.scrollOffset; i < end; i++ {
			row := highlight(m.filtered[i])
			if i == m.cursor {
				b.WriteString(cursorStyle.Render(" ▸ "))
				b.WriteString(selectedRowStyle.Render(row))
			} else {
				b.WriteString("   ")
				b.WriteString(row)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("%d/%d  ↑/↓ move · enter open · esc clear/quit",
		len(m.filtered), len(m.projects))))
	b.WriteString("\n")

	return b.String()
}
