package scanner

import (
	"bytes"
	"testing"
)

func TestScanSeparatesOnSixteenBytePaddingRun(t *testing.T) {
	text := append([]byte{0x90, 0x90, 0x48, 0x89, 0xE5, 0xC3}, bytes.Repeat([]byte{0xCC}, 16)...)
	text = append(text, 0x48, 0xC3)

	ranges := Scan(text, 0x1000)

	want := []Range{
		{VAddr: 0x1002, Offset: 2, Length: 4},
		{VAddr: 0x1016, Offset: 22, Length: 2},
	}
	if len(ranges) != len(want) {
		t.Fatalf("got %d ranges, want %d: %+v", len(ranges), len(want), ranges)
	}
	for i, r := range ranges {
		if r != want[i] {
			t.Errorf("range %d = %+v, want %+v", i, r, want[i])
		}
	}
}

func TestScanEmptyInputYieldsNoRanges(t *testing.T) {
	if got := Scan(nil, 0); got != nil {
		t.Errorf("Scan(nil) = %+v, want nil", got)
	}
}

func TestScanAllPaddingYieldsNoRanges(t *testing.T) {
	text := bytes.Repeat([]byte{0x90}, 40)
	if got := Scan(text, 0); len(got) != 0 {
		t.Errorf("Scan(all-padding) = %+v, want empty", got)
	}
}

func TestScanShortPaddingRunStaysWithinRange(t *testing.T) {
	// A padding run shorter than 16 bytes does not split the range: it is
	// swallowed into the single code range surrounding it.
	text := append([]byte{0xB8, 0x00, 0x00, 0x00, 0x00}, bytes.Repeat([]byte{0x90}, 5)...)
	text = append(text, 0xC3)

	ranges := Scan(text, 0)
	if len(ranges) != 1 {
		t.Fatalf("got %d ranges, want 1: %+v", len(ranges), ranges)
	}
	if ranges[0].Offset != 0 || ranges[0].Length != len(text) {
		t.Errorf("range = %+v, want offset 0 length %d", ranges[0], len(text))
	}
}

func TestScanTrailingPaddingShorterThanRunIncludedInRange(t *testing.T) {
	text := []byte{0x48, 0x89, 0xE5, 0x90, 0x90}
	ranges := Scan(text, 0x2000)
	if len(ranges) != 1 {
		t.Fatalf("got %d ranges, want 1: %+v", len(ranges), ranges)
	}
	if ranges[0] != (Range{VAddr: 0x2000, Offset: 0, Length: 5}) {
		t.Errorf("range = %+v", ranges[0])
	}
}

func TestScanLeadingPaddingIsSkipped(t *testing.T) {
	text := append(bytes.Repeat([]byte{0x00}, 3), 0xC3, 0x90, 0xC3)
	ranges := Scan(text, 0x100)
	if len(ranges) != 1 {
		t.Fatalf("got %d ranges, want 1: %+v", len(ranges), ranges)
	}
	if ranges[0] != (Range{VAddr: 0x103, Offset: 3, Length: 3}) {
		t.Errorf("range = %+v", ranges[0])
	}
}

func TestScanIsIdempotent(t *testing.T) {
	text := append([]byte{0x90, 0x90, 0x48, 0x89, 0xE5, 0xC3}, bytes.Repeat([]byte{0xCC}, 16)...)
	text = append(text, 0x48, 0xC3)

	a := Scan(text, 0x1000)
	b := Scan(text, 0x1000)
	if len(a) != len(b) {
		t.Fatalf("non-idempotent: %+v vs %+v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("range %d differs across calls: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestRangeEnd(t *testing.T) {
	r := Range{VAddr: 0x1000, Offset: 0, Length: 8}
	if got := r.End(); got != 0x1008 {
		t.Errorf("End() = %#x, want 0x1008", got)
	}
}
