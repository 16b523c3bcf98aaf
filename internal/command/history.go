package command

// DefaultHistoryLimit caps how many reversible commands are remembered.
const DefaultHistoryLimit = 32

// History runs commands and remembers the reversible ones.
type History struct {
	done  []Undoable
	limit int
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Run executes c if it can execute. It reports whether c succeeded.
func (h *History) Run(c Command) bool {
	if !c.CanExecute() || !c.Execute() {
		return false
	}
	u, ok := c.(Undoable)
	if !ok {
		h.Clear()
		return true
	}
	h.done = append(h.done, u)
	if len(h.done) > h.limit {
		h.done = h.done[len(h.done)-h.limit:]
	}
	return true
}

// Undo reverts the most recent reversible command.
func (h *History) Undo() bool {
	if len(h.done) == 0 {
		return false
	}
	last := h.done[len(h.done)-1]
	h.done = h.done[:len(h.done)-1]
	return last.Undo()
}

func (h *History) CanUndo() bool { return len(h.done) > 0 }

func (h *History) Len() int { return len(h.done) }

func (h *History) Clear() { h.done = nil }
