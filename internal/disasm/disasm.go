// Package disasm wraps golang.org/x/arch's per-architecture decoders
// behind one interface, and runs a linear sweep over a byte window
// producing a batch of decoded instructions.
package disasm

import (
	"fmt"
	"strings"

	"golang.org/x/arch/arm/armasm"
	"golang.org/x/arch/arm64/arm64asm"
	"golang.org/x/arch/x86/x86asm"

	"github.com/screenager/disx/internal/elf"
)

// Field widths matching the decoded-instruction record: raw bytes shown in
// the hex column, and the fixed-width mnemonic/operand buffers.
const (
	maxRawBytes  = 16
	maxMnemonic  = 31
	maxOperands  = 127
)

// Instruction is one decoded instruction, heap-owned and independent of
// the decoder once returned.
type Instruction struct {
	Address  uint64
	Raw      []byte // min(len(encoding), maxRawBytes) bytes
	Mnemonic string
	Operands string
	Display  string // filled in by the presentation model, not here
}

// Batch is the unit of transfer from a worker to the presentation model:
// one job's decoded output.
type Batch struct {
	VAddr        uint64
	RequestedLen int
	DecodedLen   int
	Instructions []Instruction
}

// Decoder decodes one instruction at a time from the front of code.
type Decoder interface {
	// Decode returns the rendered mnemonic, operand text, and the number
	// of bytes the instruction consumed. pc is the virtual address of
	// code[0], used only to render PC-relative operands.
	Decode(code []byte, pc uint64) (mnemonic, operands string, length int, err error)
	Close()
}

// Open returns a Decoder for tuple, or an error if the tuple is not
// recognised.
func Open(tuple elf.Tuple) (Decoder, error) {
	switch tuple.Arch {
	case elf.ArchX86:
		mode := 64
		if tuple.Mode == elf.Mode32 {
			mode = 32
		}
		return &x86Decoder{mode: mode}, nil
	case elf.ArchARM:
		return &armDecoder{}, nil
	case elf.ArchAArch64:
		return &arm64Decoder{}, nil
	default:
		return nil, fmt.Errorf("disasm: unsupported architecture tuple %v", tuple)
	}
}

type x86Decoder struct{ mode int }

func (d *x86Decoder) Decode(code []byte, pc uint64) (string, string, int, error) {
	inst, err := x86asm.Decode(code, d.mode)
	if err != nil {
		return "", "", 0, err
	}
	mnemonic, operands := splitSyntax(x86asm.GNUSyntax(inst, pc, nil))
	return mnemonic, operands, inst.Len, nil
}

func (d *x86Decoder) Close() {}

type armDecoder struct{}

func (d *armDecoder) Decode(code []byte, pc uint64) (string, string, int, error) {
	inst, err := armasm.Decode(code, armasm.ModeARM)
	if err != nil {
		return "", "", 0, err
	}
	mnemonic, operands := splitSyntax(armasm.GNUSyntax(inst))
	return mnemonic, operands, inst.Len, nil
}

func (d *armDecoder) Close() {}

type arm64Decoder struct{}

func (d *arm64Decoder) Decode(code []byte, pc uint64) (string, string, int, error) {
	inst, err := arm64asm.Decode(code)
	if err != nil {
		return "", "", 0, err
	}
	mnemonic, operands := splitSyntax(arm64asm.GNUSyntax(inst))
	return mnemonic, operands, 4, nil
}

func (d *arm64Decoder) Close() {}

// splitSyntax separates a decoder's rendered "mnemonic operands" text into
// its two parts on the first run of whitespace.
func splitSyntax(full string) (mnemonic, operands string) {
	full = strings.TrimSpace(full)
	i := strings.IndexAny(full, " \t")
	if i < 0 {
		return full, ""
	}
	return full[:i], strings.TrimSpace(full[i:])
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Run decodes sequentially from vaddr over code. On a decode failure it
// advances one byte and retries, so an unrecognised or misaligned
// sequence never stalls the sweep. decoder is reused across calls;
// callers own its lifetime.
func Run(decoder Decoder, code []byte, vaddr uint64) Batch {
	batch := Batch{VAddr: vaddr, RequestedLen: len(code)}
	pos := 0
	for pos < len(code) {
		mnemonic, operands, length, err := decoder.Decode(code[pos:], vaddr+uint64(pos))
		if err != nil || length <= 0 {
			pos++
			continue
		}
		raw := code[pos:pos+length]
		if len(raw) > maxRawBytes {
			raw = raw[:maxRawBytes]
		}
		rawCopy := make([]byte, len(raw))
		copy(rawCopy, raw)

		batch.Instructions = append(batch.Instructions, Instruction{
			Address:  vaddr + uint64(pos),
			Raw:      rawCopy,
			Mnemonic: truncate(mnemonic, maxMnemonic),
			Operands: truncate(operands, maxOperands),
		})
		pos += length
	}
	batch.DecodedLen = pos
	return batch
}
