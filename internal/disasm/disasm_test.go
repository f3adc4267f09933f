package disasm

import (
	"testing"

	"github.com/screenager/disx/internal/elf"
)

func TestOpenUnsupportedTupleErrors(t *testing.T) {
	_, err := Open(elf.Tuple{})
	if err == nil {
		t.Fatal("expected error for zero-value tuple")
	}
}

func TestOpenX86(t *testing.T) {
	d, err := Open(elf.Tuple{Arch: elf.ArchX86, Mode: elf.Mode64})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()
	if _, ok := d.(*x86Decoder); !ok {
		t.Fatalf("got %T, want *x86Decoder", d)
	}
}

func TestRunDecodesKnownX86Sequence(t *testing.T) {
	// nop; nop; mov %rsp,%rbp (48 89 E5, 64-bit REX.W mov); ret
	code := []byte{0x90, 0x90, 0x48, 0x89, 0xE5, 0xC3}
	d, err := Open(elf.Tuple{Arch: elf.ArchX86, Mode: elf.Mode64})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	batch := Run(d, code, 0x1000)

	if batch.VAddr != 0x1000 || batch.RequestedLen != len(code) {
		t.Fatalf("batch header = %+v", batch)
	}
	if batch.DecodedLen != len(code) {
		t.Errorf("DecodedLen = %d, want %d", batch.DecodedLen, len(code))
	}
	if len(batch.Instructions) != 4 {
		t.Fatalf("got %d instructions, want 4: %+v", len(batch.Instructions), batch.Instructions)
	}
	if batch.Instructions[0].Address != 0x1000 {
		t.Errorf("first instruction address = %#x, want 0x1000", batch.Instructions[0].Address)
	}
	last := batch.Instructions[3]
	if last.Address != 0x1005 {
		t.Errorf("ret address = %#x, want 0x1005", last.Address)
	}
	if last.Mnemonic == "" {
		t.Error("expected non-empty mnemonic for ret")
	}
}

func TestRunAdvancesOneByteOnDecodeFailure(t *testing.T) {
	// 0x0F alone (a two-byte-opcode escape with nothing following) cannot
	// decode; the sweep must still terminate, advancing byte by byte.
	code := []byte{0x0F}
	d, err := Open(elf.Tuple{Arch: elf.ArchX86, Mode: elf.Mode64})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	batch := Run(d, code, 0)
	if len(batch.Instructions) != 0 {
		t.Errorf("expected no decoded instructions, got %+v", batch.Instructions)
	}
	if batch.DecodedLen != 1 {
		t.Errorf("DecodedLen = %d, want 1 (swept past the undecodable byte)", batch.DecodedLen)
	}
}

func TestRunEmptyCodeYieldsEmptyBatch(t *testing.T) {
	d, err := Open(elf.Tuple{Arch: elf.ArchX86, Mode: elf.Mode64})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	batch := Run(d, nil, 0x2000)
	if len(batch.Instructions) != 0 || batch.DecodedLen != 0 {
		t.Errorf("batch = %+v, want empty", batch)
	}
}

func TestSplitSyntax(t *testing.T) {
	cases := []struct {
		in             string
		mnemonic, ops string
	}{
		{"ret", "ret", ""},
		{"mov    %esp,%ebp", "mov", "%esp,%ebp"},
		{"  nop  ", "nop", ""},
	}
	for _, c := range cases {
		m, o := splitSyntax(c.in)
		if m != c.mnemonic || o != c.ops {
			t.Errorf("splitSyntax(%q) = (%q, %q), want (%q, %q)", c.in, m, o, c.mnemonic, c.ops)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello", 10); got != "hello" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("hello world", 5); got != "hello" {
		t.Errorf("truncate long = %q", got)
	}
}
