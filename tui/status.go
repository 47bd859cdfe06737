package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar produces a full-width inverted status line showing the
// pack title, the size of the live world, and the turn count.
func (m Model) renderStatusBar() string {
	title := m.pack.Title
	if title == "" {
		title = "Edict"
	}
	if m.pack.Version != "" {
		title += " v" + m.pack.Version
	}

	entities := len(m.engine.Store.View().EntitiesWith("Meta"))
	laws := m.engine.Registry.Len()

	left := fmt.Sprintf(" %s", title)
	right := fmt.Sprintf("%d entities | %d laws | T:%d ", entities, laws, m.engine.TurnCount())

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
