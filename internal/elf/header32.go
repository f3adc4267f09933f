package elf

import (
	"encoding/binary"

	"github.com/screenager/disx/internal/seq"
)

const (
	ehSize32 = 52
	phSize32 = 32
	shSize32 = 40
)

func parse32(data []byte, order binary.ByteOrder) (*File, error) {
	if len(data) < ehSize32 {
		return nil, ErrTruncatedHeader
	}
	r := newByteReader(data, order)
	r.seek(16) // skip e_ident, already validated

	f := &File{}
	f.Type = Type(r.u16())
	f.Machine = Machine(r.u16())
	_ = r.u32() // e_version
	f.Entry = uint64(r.u32())
	f.PhOff = uint64(r.u32())
	f.ShOff = uint64(r.u32())
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

	f.ProgramHdrs = readProgramHeaders32(data, order, f.PhOff, f.PhNum)
	f.SectionHdrs = readSectionHeaders32(data, order, f.ShOff, f.ShNum)
	return f, nil
}

func readProgramHeaders32(data []byte, order binary.ByteOrder, off uint64, n uint16) []ProgramHeader {
	end := off + uint64(n)*phSize32
	if n == 0 || end > uint64(len(data)) || end < off {
		return nil
	}
	out := seq.New[ProgramHeader]()
	r := newByteReader(data, order)
	for i := uint16(0); i < n; i++ {
		r.seek(int(off) + int(i)*phSize32)
		ph := ProgramHeader{
			Type:       r.u32(),
			FileOffset: uint64(r.u32()),
			VAddr:      uint64(r.u32()),
			PAddr:      uint64(r.u32()),
			FileSize:   uint64(r.u32()),
			MemSize:    uint64(r.u32()),
			Flags:      r.u32(),
			Align:      uint64(r.u32()),
		}
		if r.err != nil {
			break
		}
		out.Push(ph)
	}
	out.ShrinkToFit()
	return out.Slice()
}

func readSectionHeaders32(data []byte, order binary.ByteOrder, off uint64, n uint16) []SectionHeader {
	end := off + uint64(n)*shSize32
	if n == 0 || end > uint64(len(data)) || end < off {
		return nil
	}
	out := seq.New[SectionHeader]()
	r := newByteReader(data, order)
	for i := uint16(0); i < n; i++ {
		r.seek(int(off) + int(i)*shSize32)
		sh := SectionHeader{
			NameOffset: r.u32(),
			Type:       r.u32(),
			Flags:      uint64(r.u32()),
			Addr:       uint64(r.u32()),
			FileOffset: uint64(r.u32()),
			Size:       uint64(r.u32()),
			Link:       r.u32(),
			Info:       r.u32(),
			AddrAlign:  uint64(r.u32()),
			EntSize:    uint64(r.u32()),
		}
		if r.err != nil {
			break
		}
		out.Push(sh)
	}
	out.ShrinkToFit()
	return out.Slice()
}

const symSize32 = 16

func readSymbols32(data []byte, order binary.ByteOrder, off, size uint64, entSize uint64, strtab []byte) []Symbol {
	if entSize == 0 {
		entSize = symSize32
	}
	return readSymbolsGeneric(data, off, size, entSize, func(entry []byte) decodedSymbol {
		r := newByteReader(entry, order)
		nameOff := r.u32()
		value := uint64(r.u32())
		symSize := uint64(r.u32())
		info := r.u8()
		other := r.u8()
		shndx := r.u16()
		return buildSymbol(strtab, nameOff, value, symSize, info, other, shndx)
	})
}
