package elf

import (
	"encoding/binary"

	"github.com/screenager/disx/internal/seq"
)

const (
	ehSize64 = 64
	phSize64 = 56
	shSize64 = 64
)

func parse64(data []byte, order binary.ByteOrder) (*File, error) {
	if len(data) < ehSize64 {
		return nil, ErrTruncatedHeader
	}
	r := newByteReader(data, order)
	r.seek(16) // skip e_ident, already validated

	f := &File{}
	f.Type = Type(r.u16())
	f.Machine = Machine(r.u16())
	_ = r.u32() // e_version
	f.Entry = r.u64()
	f.PhOff = r.u64()
	f.ShOff = r.u64()
	_ = r.u32() // e_flags
	_ = r.u16() // e_ehsize
	_ = r.u16() // e_phentsize
	f.PhNum = r.u16()
	_ = r.u16() // e_shentsize
	f.ShNum = r.u16()
	f.ShStrNdx = r.u16()
	if r.err != nil {
		return nil, r.err
	}

	f.ProgramHdrs = readProgramHeaders64(data, order, f.PhOff, f.PhNum)
	f.SectionHdrs = readSectionHeaders64(data, order, f.ShOff, f.ShNum)
	return f, nil
}

func readProgramHeaders64(data []byte, order binary.ByteOrder, off uint64, n uint16) []ProgramHeader {
	end := off + uint64(n)*phSize64
	if n == 0 || end > uint64(len(data)) || end < off {
		return nil
	}
	out := seq.New[ProgramHeader]()
	r := newByteReader(data, order)
	for i := uint16(0); i < n; i++ {
		r.seek(int(off) + int(i)*phSize64)
		ph := ProgramHeader{
			Type:       r.u32(),
			Flags:      r.u32(),
			FileOffset: r.u64(),
			VAddr:      r.u64(),
			PAddr:      r.u64(),
			FileSize:   r.u64(),
			MemSize:    r.u64(),
			Align:      r.u64(),
		}
		if r.err != nil {
			break
		}
		out.Push(ph)
	}
	out.ShrinkToFit()
	return out.Slice()
}

func readSectionHeaders64(data []byte, order binary.ByteOrder, off uint64, n uint16) []SectionHeader {
	end := off + uint64(n)*shSize64
	if n == 0 || end > uint64(len(data)) || end < off {
		return nil
	}
	out := seq.New[SectionHeader]()
	r := newByteReader(data, order)
	for i := uint16(0); i < n; i++ {
		r.seek(int(off) + int(i)*shSize64)
		sh := SectionHeader{
			NameOffset: r.u32(),
			Type:       r.u32(),
			Flags:      r.u64(),
			Addr:       r.u64(),
			FileOffset: r.u64(),
			Size:       r.u64(),
			Link:       r.u32(),
			Info:       r.u32(),
			AddrAlign:  r.u64(),
			EntSize:    r.u64(),
		}
		if r.err != nil {
			break
		}
		out.Push(sh)
	}
	out.ShrinkToFit()
	return out.Slice()
}

const symSize64 = 24

func readSymbols64(data []byte, order binary.ByteOrder, off, size uint64, entSize uint64, strtab []byte) []Symbol {
	if entSize == 0 {
		entSize = symSize64
	}
	return readSymbolsGeneric(data, off, size, entSize, func(entry []byte) decodedSymbol {
		r := newByteReader(entry, order)
		nameOff := r.u32()
		info := r.u8()
		other := r.u8()
		shndx := r.u16()
		value := r.u64()
		symSize := r.u64()
		return buildSymbol(strtab, nameOff, value, symSize, info, other, shndx)
	})
}
