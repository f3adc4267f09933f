package elf

import "fmt"

// Arch identifies an instruction-set family.
type Arch uint8

const (
	ArchNone Arch = iota
	ArchX86
	ArchARM
	ArchAArch64
)

func (a Arch) String() string {
	switch a {
	case ArchX86:
		return "x86"
	case ArchARM:
		return "arm"
	case ArchAArch64:
		return "aarch64"
	default:
		return "none"
	}
}

// Mode distinguishes bit-width/instruction-set variants within an Arch:
// 32 or 64 for x86, and the ARM instruction mode for arm/aarch64.
type Mode uint8

const (
	Mode32    Mode = 32
	Mode64    Mode = 64
	ModeARM   Mode = 1 // ARM-mode (as opposed to Thumb) encoding
)

// Tuple is an (arch, mode) pair consumed by the decoder to select its
// instruction set. The zero value Tuple{} is the "auto-detect from ELF"
// sentinel.
type Tuple struct {
	Arch Arch
	Mode Mode
}

// IsAuto reports whether t is the (0,0) auto-detect sentinel.
func (t Tuple) IsAuto() bool { return t.Arch == ArchNone && t.Mode == 0 }

// String renders the tuple the way the presentation model's subtitle wants
// it: "x86", "x86_64", "arm", or "aarch64".
func (t Tuple) String() string {
	switch {
	case t.Arch == ArchX86 && t.Mode == Mode32:
		return "x86"
	case t.Arch == ArchX86 && t.Mode == Mode64:
		return "x86_64"
	case t.Arch == ArchARM:
		return "arm"
	case t.Arch == ArchAArch64:
		return "aarch64"
	default:
		return fmt.Sprintf("unknown(%d,%d)", t.Arch, t.Mode)
	}
}

// ArchFromELF maps e_machine to the architecture tuple the decoder should
// use. Unrecognized machines default to (x86, 64).
func ArchFromELF(m Machine) Tuple {
	switch m {
	case EM386:
		return Tuple{Arch: ArchX86, Mode: Mode32}
	case EMX8664:
		return Tuple{Arch: ArchX86, Mode: Mode64}
	case EMARM:
		return Tuple{Arch: ArchARM, Mode: ModeARM}
	case EMAARCH64:
		return Tuple{Arch: ArchAArch64, Mode: ModeARM}
	default:
		return Tuple{Arch: ArchX86, Mode: Mode64}
	}
}

// ArchTuple reports the tuple implied by this file's e_machine.
func (f *File) ArchTuple() Tuple {
	return ArchFromELF(f.Machine)
}
