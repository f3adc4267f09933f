// Package elf parses ELF32 and ELF64 object files: the file header,
// program headers, section headers, the section-header string table, and
// symbol tables. A File is immutable once Parse returns successfully.
package elf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// Class is the ELF file class (EI_CLASS).
type Class uint8

const (
	ClassNone Class = 0
	Class32   Class = 1
	Class64   Class = 2
)

// DataEncoding is the ELF byte order (EI_DATA).
type DataEncoding uint8

const (
	DataNone DataEncoding = 0
	DataLSB  DataEncoding = 1 // little-endian
	DataMSB  DataEncoding = 2 // big-endian
)

// Type is the ELF file type (e_type).
type Type uint16

const (
	TypeNone Type = 0
	TypeRel  Type = 1
	TypeExec Type = 2
	TypeDyn  Type = 3
	TypeCore Type = 4
)

// Machine is the e_machine field.
type Machine uint16

const (
	EM386    Machine = 3
	EMARM    Machine = 40
	EMX8664  Machine = 62
	EMAARCH64 Machine = 183
)

// Sentinel errors surfaced by Parse. Wrapped with %w for context; compare
// with errors.Is.
var (
	ErrOpenFailed        = errors.New("elf: open failed")
	ErrReadFailed        = errors.New("elf: read failed")
	ErrTruncatedHeader   = errors.New("elf: truncated header")
	ErrBadMagic          = errors.New("elf: bad magic")
	ErrUnsupportedClass  = errors.New("elf: unsupported class")
)

var magic = [4]byte{0x7F, 'E', 'L', 'F'}

// ProgramHeader is widened to 64-bit fields regardless of the source
// class.
type ProgramHeader struct {
	Type       uint32
	Flags      uint32
	FileOffset uint64
	VAddr      uint64
	PAddr      uint64
	FileSize   uint64
	MemSize    uint64
	Align      uint64
}

// SectionHeader is widened to 64-bit fields regardless of the source
// class.
type SectionHeader struct {
	NameOffset uint32
	Type       uint32
	Flags      uint64
	Addr       uint64
	FileOffset uint64
	Size       uint64
	Link       uint32
	Info       uint32
	AddrAlign  uint64
	EntSize    uint64
}

// Section type constants relevant to disx.
const (
	SHTNull    uint32 = 0
	SHTStrTab  uint32 = 3
	SHTSymTab  uint32 = 2
	SHTDynSym  uint32 = 11
)

// Symbol is a single symbol-table entry, with bind/type derived from the
// raw info byte at ingest.
type Symbol struct {
	Name  string
	Value uint64
	Size  uint64
	Info  uint8
	Other uint8
	Shndx uint16
	Bind  uint8 // Info >> 4
	Type  uint8 // Info & 0xF
}

// File is the parsed, immutable ELF model.
type File struct {
	Path        string
	Class       Class
	Data        DataEncoding
	Type        Type
	Machine     Machine
	Entry       uint64
	PhOff       uint64
	PhNum       uint16
	ShOff       uint64
	ShNum       uint16
	ShStrNdx    uint16
	ProgramHdrs []ProgramHeader
	SectionHdrs []SectionHeader
	ShStrTab    []byte // raw bytes of the section-header string table

	raw       []byte // full file contents, retained for section reads
	byteOrder binary.ByteOrder
}

// Parse reads path in full and parses it as an ELF32 or ELF64 file.
func Parse(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s: %v", ErrOpenFailed, path, err)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrReadFailed, path, err)
	}

	if len(data) < 20 {
		return nil, fmt.Errorf("%w: %s", ErrTruncatedHeader, path)
	}
	if [4]byte(data[0:4]) != magic {
		return nil, fmt.Errorf("%w: %s", ErrBadMagic, path)
	}

	class := Class(data[4])
	dataEnc := DataEncoding(data[5])
	var order binary.ByteOrder = binary.LittleEndian
	if dataEnc == DataMSB {
		order = binary.BigEndian
	}

	var f *File
	switch class {
	case Class32:
		f, err = parse32(data, order)
	case Class64:
		f, err = parse64(data, order)
	default:
		return nil, fmt.Errorf("%w: class %d in %s", ErrUnsupportedClass, class, path)
	}
	if err != nil {
		return nil, err
	}

	f.Path = path
	f.Class = class
	f.Data = dataEnc
	f.raw = data
	f.byteOrder = order

	loadShStrTab(f)
	return f, nil
}

// loadShStrTab loads the section-header string table from ShStrNdx if the
// index is valid; otherwise ShStrTab remains nil and SectionName always
// reports "no name".
func loadShStrTab(f *File) {
	if int(f.ShStrNdx) >= len(f.SectionHdrs) {
		return
	}
	sh := f.SectionHdrs[f.ShStrNdx]
	end := sh.FileOffset + sh.Size
	if sh.Size == 0 || end > uint64(len(f.raw)) || end < sh.FileOffset {
		return
	}
	f.ShStrTab = f.raw[sh.FileOffset:end]
}

// SectionName resolves a section header's name by indexing its NameOffset
// into the section-header string table. It requires a NUL terminator
// within the table's bounds; out-of-bounds or unterminated yields
// ("", false).
func (f *File) SectionName(sh SectionHeader) (string, bool) {
	return stringAt(f.ShStrTab, sh.NameOffset)
}

// stringAt returns the NUL-terminated string starting at offset within
// table, or ("", false) if offset is out of range or no terminator exists.
func stringAt(table []byte, offset uint32) (string, bool) {
	if table == nil || int(offset) >= len(table) {
		return "", false
	}
	rest := table[offset:]
	nul := indexByte(rest, 0)
	if nul < 0 {
		return "", false
	}
	return string(rest[:nul]), true
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// SectionByName returns the first section header whose resolved name
// equals name.
func (f *File) SectionByName(name string) (SectionHeader, bool) {
	for _, sh := range f.SectionHdrs {
		if n, ok := f.SectionName(sh); ok && n == name {
			return sh, true
		}
	}
	return SectionHeader{}, false
}

// SectionBytes returns a copy of the raw file bytes backing sh, or an error
// if the section's range falls outside the file.
func (f *File) SectionBytes(sh SectionHeader) ([]byte, error) {
	end := sh.FileOffset + sh.Size
	if end > uint64(len(f.raw)) || end < sh.FileOffset {
		return nil, fmt.Errorf("elf: section out of bounds (offset=%d size=%d file=%d)",
			sh.FileOffset, sh.Size, len(f.raw))
	}
	out := make([]byte, sh.Size)
	copy(out, f.raw[sh.FileOffset:end])
	return out, nil
}

// ByteOrder reports the file's multi-byte field encoding.
func (f *File) ByteOrder() binary.ByteOrder { return f.byteOrder }
