// Package scanner splits a section's raw bytes into code ranges separated
// by long padding runs. It is a pure function over a byte slice: no shared
// state, no I/O, safe to call from any goroutine.
package scanner

import "github.com/screenager/disx/internal/seq"

// padding bytes inserted by compilers/linkers between function bodies.
const (
	padNop  = 0x90
	padInt3 = 0xCC
	padZero = 0x00
)

// minPaddingRun is the number of consecutive padding bytes that ends a
// code range and starts a new search for the next one.
const minPaddingRun = 16

// Range is a contiguous, non-padding window of a section suitable as a
// single decoder input.
type Range struct {
	VAddr  uint64 // text_vaddr + Offset
	Offset int    // byte offset within the scanned slice
	Length int
}

// End reports the exclusive end of the range in virtual-address space.
func (r Range) End() uint64 { return r.VAddr + uint64(r.Length) }

func isPadding(b byte) bool {
	return b == padZero || b == padNop || b == padInt3
}

// Scan walks text left to right, skipping leading padding, then extends
// each range until it finds a run of at least minPaddingRun consecutive
// padding bytes. Ranges are ordered by Offset and never overlap; a
// 16-byte-or-longer padding run always separates two ranges and never
// appears inside one. Calling Scan twice on the same bytes yields
// identical results.
func Scan(text []byte, textVAddr uint64) []Range {
	ranges := seq.New[Range]()
	i := 0
	n := len(text)

	for i < n {
		for i < n && isPadding(text[i]) {
			i++
		}
		if i >= n {
			break
		}

		start := i
		padRun := 0
		broke := false
		for i < n {
			if isPadding(text[i]) {
				padRun++
				if padRun >= minPaddingRun {
					broke = true
					break
				}
			} else {
				padRun = 0
			}
			i++
		}

		end := i
		if broke {
			end = i - padRun + 1
		}
		if end > start {
			ranges.Push(Range{
				VAddr:  textVAddr + uint64(start),
				Offset: start,
				Length: end - start,
			})
		}
	}

	ranges.ShrinkToFit()
	return ranges.Slice()
}
