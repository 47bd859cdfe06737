// Package tui provides a Bubble Tea terminal UI for the Edict simulation
// engine.
package tui

// History holds recent commands for Up/Down recall. The cursor is -1 while
// the player is typing fresh input and an index into entries while browsing.
type History struct {
	entries []string
	max     int
	cursor  int
}

// NewHistory creates a history buffer that keeps at most max commands.
func NewHistory(max int) *History {
	return &History{max: max, cursor: -1}
}

// Push records a command. Repeating the last command adds nothing.
func (h *History) Push(cmd string) {
	if n := len(h.entries); n > 0 && h.entries[n-1] == cmd {
		return
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.max {
		h.entries = h.entries[1:]
	}
}

// Prev steps toward older entries. Returns ("", false) on empty history.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.cursor == -1:
		h.cursor = len(h.entries) - 1
	case h.cursor > 0:
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Next steps toward newer entries. Past the most recent entry it returns
// ("", false) and the cursor resets to fresh input.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= len(h.entries) {
		h.cursor = -1
		return "", false
	}
	return h.entries[h.cursor], true
}

// ResetCursor returns the cursor to the fresh-input state.
func (h *History) ResetCursor() {
	h.cursor = -1
}
