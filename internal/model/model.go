// Package model holds the presentation state shared between the worker
// pool's publication callbacks and the rendering/command-interpreter
// foreground: decoded instructions, extracted strings and symbols, the
// active view, and the scroll/selection cursor. Every mutation and every
// read of the underlying slices takes mu for its entire body.
package model

import (
	"fmt"
	"strings"
	"sync"

	"github.com/screenager/disx/internal/disasm"
	"github.com/screenager/disx/internal/elf"
	"github.com/screenager/disx/internal/seq"
)

// ViewMode selects which of the three collections is on screen.
type ViewMode int

const (
	ViewInstructions ViewMode = iota
	ViewStrings
	ViewSymbols
)

func (v ViewMode) String() string {
	switch v {
	case ViewInstructions:
		return "instructions"
	case ViewStrings:
		return "strings"
	case ViewSymbols:
		return "symbols"
	default:
		return "unknown"
	}
}

const commandBufferMax = 256

// Model is the thread-safe bag of decoded artifacts and cursor state
// consumed by the rendering collaborator.
type Model struct {
	mu sync.Mutex

	title    string
	subtitle string

	instructions *seq.Sequence[disasm.Instruction]
	strings      *seq.Sequence[string]
	symbols      *seq.Sequence[SymbolEntry]

	viewMode ViewMode
	selected int
	scroll   int

	commandBuf string
	status     string
}

// New returns an empty model in the instructions view.
func New(title, subtitle string) *Model {
	return &Model{
		title:        title,
		subtitle:     subtitle,
		instructions: seq.New[disasm.Instruction](),
		strings:      seq.New[string](),
		symbols:      seq.New[SymbolEntry](),
	}
}

// SetSubtitle updates the subtitle shown in the header, e.g. to
// "<path> | <arch>" after a successful open.
func (m *Model) SetSubtitle(subtitle string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subtitle = subtitle
}

// AddInstructions formats a display string for each instruction in batch
// and appends them to the instructions sequence, in the order given.
// Callers are expected to pass one worker batch at a time; instructions
// across batches are not globally sorted by address.
func (m *Model) AddInstructions(batch disasm.Batch) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ins := range batch.Instructions {
		ins.Display = formatInstruction(ins)
		m.instructions.Push(ins)
	}
}

// Clear discards all instructions, strings, and symbols.
func (m *Model) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.instructions = seq.New[disasm.Instruction]()
	m.strings = seq.New[string]()
	m.symbols = seq.New[SymbolEntry]()
	m.selected = 0
	m.scroll = 0
}

// AddStrings appends extracted string literals.
func (m *Model) AddStrings(ss []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range ss {
		m.strings.Push(s)
	}
}

// SymbolEntry pairs a parsed symbol record with its rendered display
// string, computed once at ingest.
type SymbolEntry struct {
	elf.Symbol
	Display string
}

// AddSymbols appends extracted symbol records, formatting a display
// string for each.
func (m *Model) AddSymbols(syms []elf.Symbol) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sym := range syms {
		m.symbols.Push(SymbolEntry{Symbol: sym, Display: formatSymbol(sym)})
	}
}

// SetView switches the active view, resetting the cursor and writing a
// status message describing the new view.
func (m *Model) SetView(v ViewMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.viewMode = v
	m.selected = 0
	m.scroll = 0
	m.status = fmt.Sprintf("switched to %s view", v)
}

// formatInstruction renders "0xADDR:  BB BB ... (padded to 16)  MNEM OPERANDS".
func formatInstruction(ins disasm.Instruction) string {
	var hex strings.Builder
	for i := 0; i < 16; i++ {
		if i > 0 {
			hex.WriteByte(' ')
		}
		if i < len(ins.Raw) {
			fmt.Fprintf(&hex, "%02X", ins.Raw[i])
		} else {
			hex.WriteString("  ")
		}
	}
	return fmt.Sprintf("0x%08X:  %s  %s %s", ins.Address, hex.String(), ins.Mnemonic, ins.Operands)
}

// formatSymbol renders "0xVALUE:\tNAME" or "(lib./ext.):\tNAME" when Value
// is zero (an undefined/external symbol).
func formatSymbol(sym elf.Symbol) string {
	if sym.Value != 0 {
		return fmt.Sprintf("0x%X:\t%s", sym.Value, sym.Name)
	}
	return fmt.Sprintf("(lib./ext.):\t%s", sym.Name)
}
