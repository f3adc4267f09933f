package elf

import (
	"fmt"

	"github.com/screenager/disx/internal/seq"
)

// Symbols parses the symbol table at sh, resolving names against the
// string table referenced by sh.Link. sh.Link must point at a SHT_STRTAB
// section with nonzero size. Entry size is sh.EntSize if nonzero, else the
// class's native symbol-record size.
func (f *File) Symbols(sh SectionHeader) ([]Symbol, error) {
	if int(sh.Link) >= len(f.SectionHdrs) {
		return nil, fmt.Errorf("elf: symbol section link %d out of range", sh.Link)
	}
	strSh := f.SectionHdrs[sh.Link]
	if strSh.Type != SHTStrTab || strSh.Size == 0 {
		return nil, fmt.Errorf("elf: symbol section link %d is not a nonempty string table", sh.Link)
	}
	strtab, err := f.SectionBytes(strSh)
	if err != nil {
		return nil, err
	}

	switch f.Class {
	case Class32:
		return readSymbols32(f.raw, f.byteOrder, sh.FileOffset, sh.Size, sh.EntSize, strtab), nil
	case Class64:
		return readSymbols64(f.raw, f.byteOrder, sh.FileOffset, sh.Size, sh.EntSize, strtab), nil
	default:
		return nil, fmt.Errorf("%w: class %d", ErrUnsupportedClass, f.Class)
	}
}

// readSymbolsGeneric walks size/entSize fixed-width records starting at off
// within data, decoding each with decode and skipping entries whose name
// cannot be resolved (name_offset == 0, or out of bounds/unterminated).
func readSymbolsGeneric(data []byte, off, size, entSize uint64, decode func(entry []byte) decodedSymbol) []Symbol {
	if entSize == 0 || size == 0 {
		return nil
	}
	count := size / entSize
	out := seq.New[Symbol]()
	for i := uint64(0); i < count; i++ {
		start := off + i*entSize
		end := start + entSize
		if end > uint64(len(data)) {
			break
		}
		sym := decode(data[start:end])
		if sym.skip {
			continue
		}
		out.Push(sym.Symbol)
	}
	out.ShrinkToFit()
	return out.Slice()
}

// decodedSymbol carries a skip flag for entries that must be omitted
// (name_offset == 0, or name resolution failed) without treating the whole
// table as an error.
type decodedSymbol struct {
	Symbol
	skip bool
}

// buildSymbol resolves name against strtab (bounded strnlen), skipping
// entries with a zero name offset or an unresolvable name.
func buildSymbol(strtab []byte, nameOff uint32, value, size uint64, info, other uint8, shndx uint16) decodedSymbol {
	if nameOff == 0 {
		return decodedSymbol{skip: true}
	}
	name, ok := stringAt(strtab, nameOff)
	if !ok {
		return decodedSymbol{skip: true}
	}
	return decodedSymbol{Symbol: Symbol{
		Name:  name,
		Value: value,
		Size:  size,
		Info:  info,
		Other: other,
		Shndx: shndx,
		Bind:  info >> 4,
		Type:  info & 0xF,
	}}
}
