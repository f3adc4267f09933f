package emitter

import (
	"github.com/screenager/disx/internal/elf"
	"github.com/screenager/disx/internal/seq"
)

const (
	printableLo = 0x20
	printableHi = 0x7E
)

func isPrintable(b byte) bool {
	return b >= printableLo && b <= printableHi
}

func isAlnum(b byte) bool {
	switch {
	case b >= '0' && b <= '9':
		return true
	case b >= 'a' && b <= 'z':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	default:
		return false
	}
}

// ExtractStrings scans every section named .rodata, .data, .dynstr, or
// .strtab for maximal printable runs of length >= minLen, keeping a run
// only if at least half its bytes are alphanumeric and not every byte is
// a space. Failures to read an individual section are skipped, not fatal.
func (c *Context) ExtractStrings(minLen int) []string {
	var out []string
	for _, sh := range c.File.SectionHdrs {
		name, ok := c.File.SectionName(sh)
		if !ok || !stringSections[name] {
			continue
		}
		data, err := c.File.SectionBytes(sh)
		if err != nil {
			continue
		}
		out = append(out, scanPrintableRuns(data, minLen)...)
	}
	return out
}

func scanPrintableRuns(data []byte, minLen int) []string {
	out := seq.New[string]()
	i := 0
	for i < len(data) {
		if !isPrintable(data[i]) {
			i++
			continue
		}
		start := i
		for i < len(data) && isPrintable(data[i]) {
			i++
		}
		run := data[start:i]
		if len(run) >= minLen && keepRun(run) {
			out.Push(string(run))
		}
	}
	out.ShrinkToFit()
	return out.Slice()
}

func keepRun(run []byte) bool {
	alnum, spaces := 0, 0
	for _, b := range run {
		if isAlnum(b) {
			alnum++
		}
		if b == ' ' {
			spaces++
		}
	}
	if spaces == len(run) {
		return false
	}
	return alnum*2 >= len(run)
}

// ExtractSymbols reads every .symtab/.dynsym section and resolves its
// entries against the linked string table. Per-section failures are
// skipped rather than propagated.
func (c *Context) ExtractSymbols() []elf.Symbol {
	var out []elf.Symbol
	for _, sh := range c.File.SectionHdrs {
		name, ok := c.File.SectionName(sh)
		if !ok || !symbolSections[name] {
			continue
		}
		syms, err := c.File.Symbols(sh)
		if err != nil {
			continue
		}
		out = append(out, syms...)
	}
	return out
}
