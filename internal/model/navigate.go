package model

import (
	"fmt"
	"sort"

	"github.com/screenager/disx/internal/disasm"
)

// Snapshot is a point-in-time, lock-free copy of the model's state for
// rendering. Slices are copies; mutating them does not affect the model.
type Snapshot struct {
	Title    string
	Subtitle string
	ViewMode ViewMode
	Selected int
	Scroll   int
	Status   string
	Command  string

	Instructions []disasm.Instruction
	Strings      []string
	Symbols      []SymbolEntry
}

// Snapshot copies the model's current state under lock.
func (m *Model) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Title:        m.title,
		Subtitle:     m.subtitle,
		ViewMode:     m.viewMode,
		Selected:     m.selected,
		Scroll:       m.scroll,
		Status:       m.status,
		Command:      m.commandBuf,
		Instructions: append([]disasm.Instruction(nil), m.instructions.Slice()...),
		Strings:      append([]string(nil), m.strings.Slice()...),
		Symbols:      append([]SymbolEntry(nil), m.symbols.Slice()...),
	}
}

// activeLen returns the length of the collection backing the current view.
func (m *Model) activeLen() int {
	switch m.viewMode {
	case ViewStrings:
		return m.strings.Len()
	case ViewSymbols:
		return m.symbols.Len()
	default:
		return m.instructions.Len()
	}
}

// clampCursor keeps selected/scroll inside [0, len-1] of the active view,
// or both zero when the view is empty.
func (m *Model) clampCursor() {
	n := m.activeLen()
	if n == 0 {
		m.selected, m.scroll = 0, 0
		return
	}
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	if m.scroll > m.selected {
		m.scroll = m.selected
	}
}

// MoveSelection shifts the selected index by delta, clamping into the
// active view's bounds.
func (m *Model) MoveSelection(delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected += delta
	m.clampCursor()
}

// SetStatus sets the status line shown to the user.
func (m *Model) SetStatus(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
}

// AppendCommandRune appends r to the command buffer, bounded to
// commandBufferMax bytes; excess runes are silently dropped.
func (m *Model) AppendCommandRune(r rune) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.commandBuf)+len(string(r)) > commandBufferMax {
		return
	}
	m.commandBuf += string(r)
}

// ClearCommand empties the command buffer and returns its prior contents.
func (m *Model) ClearCommand() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.commandBuf
	m.commandBuf = ""
	return prev
}

// BackspaceCommand removes the last rune from the command buffer, if any.
func (m *Model) BackspaceCommand() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.commandBuf == "" {
		return
	}
	r := []rune(m.commandBuf)
	m.commandBuf = string(r[:len(r)-1])
}

// ViewMode reports the active view.
func (m *Model) ViewMode() ViewMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewMode
}

// Goto finds the smallest-addressed instruction with address >= target in
// the instructions view, sets the cursor there, and returns the effective
// address. It fails if the view is not instructions, there are no
// instructions, or target falls outside [first, last].
func (m *Model) Goto(target uint64) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.viewMode != ViewInstructions {
		return 0, fmt.Errorf("model: goto is only valid in the instructions view")
	}
	n := m.instructions.Len()
	if n == 0 {
		return 0, fmt.Errorf("model: no instructions loaded")
	}
	firstIns, _ := m.instructions.Get(0)
	lastIns, _ := m.instructions.Get(n - 1)
	first, last := firstIns.Address, lastIns.Address
	if target < first || target > last {
		return 0, fmt.Errorf("model: address %#x outside [%#x, %#x]", target, first, last)
	}

	idx := sort.Search(n, func(i int) bool {
		ins, _ := m.instructions.Get(i)
		return ins.Address >= target
	})
	m.selected = idx
	m.scroll = idx
	effectiveIns, _ := m.instructions.Get(idx)
	effective := effectiveIns.Address
	m.status = fmt.Sprintf("jumped to 0x%08X", effective)
	return effective, nil
}
