// Package emitter coordinates the pieces of the disassembly pipeline: it
// loads an ELF file, scans its .text section into code ranges, and posts
// byte-window decode jobs to a worker pool, publishing each resulting
// batch through a caller-supplied callback.
package emitter

import (
	"fmt"

	"github.com/screenager/disx/internal/disasm"
	"github.com/screenager/disx/internal/elf"
	"github.com/screenager/disx/internal/pool"
	"github.com/screenager/disx/internal/scanner"
)

// textSectionName is the section the pipeline disassembles.
const textSectionName = ".text"

// stringSections hold printable string literals worth extracting.
var stringSections = map[string]bool{
	".rodata": true, ".data": true, ".dynstr": true, ".strtab": true,
}

// symbolSections hold symbol-table entries worth extracting.
var symbolSections = map[string]bool{
	".symtab": true, ".dynsym": true,
}

// PublishFunc receives one worker's decoded batch. Called from worker
// goroutines; implementations must be safe for concurrent invocation.
type PublishFunc func(disasm.Batch)

// Context owns everything one "open <path>" session needs: the parsed
// ELF model, the resolved architecture tuple, a copy of .text, and the
// code ranges scanned from it.
type Context struct {
	File   *elf.File
	Tuple  elf.Tuple
	Text   []byte
	VAddr  uint64
	Ranges []scanner.Range
}

// Load parses path and locates its .text section. If tuple is the
// auto-detect sentinel, the architecture is inferred from the ELF header.
// Load fails if .text cannot be found.
func Load(path string, tuple elf.Tuple) (*Context, error) {
	f, err := elf.Parse(path)
	if err != nil {
		return nil, err
	}
	if tuple.IsAuto() {
		tuple = f.ArchTuple()
	}

	sh, ok := f.SectionByName(textSectionName)
	if !ok {
		return nil, fmt.Errorf("emitter: %s has no %s section", path, textSectionName)
	}
	text, err := f.SectionBytes(sh)
	if err != nil {
		return nil, fmt.Errorf("emitter: reading %s: %w", textSectionName, err)
	}

	return &Context{
		File:  f,
		Tuple: tuple,
		Text:  text,
		VAddr: sh.Addr,
	}, nil
}

// Scan fills c.Ranges from the current .text copy. Calling it again with
// the same Text yields the same ranges.
func (c *Context) Scan() {
	c.Ranges = scanner.Scan(c.Text, c.VAddr)
}

// postJob builds the closure posted to the pool for one [start,end) window
// of c.Text, decoding with a fresh decoder per job. Workers hold no
// cross-job decoder state: the decoder is opened when the job starts and
// closed when it ends, even when consecutive jobs share a tuple.
func (c *Context) postJob(p *pool.Pool, publish PublishFunc, vaddr uint64, window []byte) error {
	tuple := c.Tuple
	code := make([]byte, len(window))
	copy(code, window)

	return p.Post(func(arg any) {
		buf := arg.([]byte)
		d, err := disasm.Open(tuple)
		if err != nil {
			return
		}
		defer d.Close()
		batch := disasm.Run(d, buf, vaddr)
		publish(batch)
	}, code)
}

// PostRange posts one job per code range intersecting [vstart, vend),
// restricted to the intersection. It returns an error if no range
// intersects or if every Post call failed.
func (c *Context) PostRange(p *pool.Pool, publish PublishFunc, vstart, vend uint64) error {
	posted := 0
	var lastErr error
	for _, r := range c.Ranges {
		rStart, rEnd := r.VAddr, r.End()
		lo, hi := max64(rStart, vstart), min64(rEnd, vend)
		if lo >= hi {
			continue
		}
		offset := r.Offset + int(lo-rStart)
		length := int(hi - lo)
		if err := c.postJob(p, publish, lo, c.Text[offset:offset+length]); err != nil {
			lastErr = err
			continue
		}
		posted++
	}
	if posted == 0 {
		if lastErr != nil {
			return lastErr
		}
		return fmt.Errorf("emitter: no code range intersects [%#x, %#x)", vstart, vend)
	}
	return nil
}

// PostAll posts one job per scanned code range.
func (c *Context) PostAll(p *pool.Pool, publish PublishFunc) error {
	posted := 0
	var lastErr error
	for _, r := range c.Ranges {
		window := c.Text[r.Offset : r.Offset+r.Length]
		if err := c.postJob(p, publish, r.VAddr, window); err != nil {
			lastErr = err
			continue
		}
		posted++
	}
	if posted == 0 && lastErr != nil {
		return lastErr
	}
	return nil
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
