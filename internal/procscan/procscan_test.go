package procscan

import (
	"os"
	"testing"
)

func TestParseMapsLine(t *testing.T) {
	line := "00400000-00452000 r-xp 00000000 08:02 173521      /usr/bin/dd"
	r, ok := parseMapsLine(line)
	if !ok {
		t.Fatal("expected a parsed region")
	}
	if r.Start != 0x400000 || r.End != 0x452000 {
		t.Errorf("bounds = [%#x, %#x)", r.Start, r.End)
	}
	if r.Perms != "r-xp" {
		t.Errorf("perms = %q", r.Perms)
	}
	if r.Path != "/usr/bin/dd" {
		t.Errorf("path = %q", r.Path)
	}
}

func TestParseMapsLineAnonymousMapping(t *testing.T) {
	line := "7f0000000000-7f0000021000 rw-p 00000000 00:00 0"
	r, ok := parseMapsLine(line)
	if !ok {
		t.Fatal("expected a parsed region")
	}
	if r.Path != "" {
		t.Errorf("path = %q, want empty for anonymous mapping", r.Path)
	}
}

func TestParseMapsLineMalformedRejected(t *testing.T) {
	if _, ok := parseMapsLine("not a maps line"); ok {
		t.Error("expected malformed line to be rejected")
	}
	if _, ok := parseMapsLine(""); ok {
		t.Error("expected empty line to be rejected")
	}
}

func TestRegionsReadsOwnProcess(t *testing.T) {
	regions, err := Regions(os.Getpid())
	if err != nil {
		t.Fatalf("Regions(self): %v", err)
	}
	if len(regions) == 0 {
		t.Error("expected at least one mapped region for the running test process")
	}
}

func TestReadRegionRejectsInvertedRange(t *testing.T) {
	if _, err := ReadRegion(os.Getpid(), 100, 50); err == nil {
		t.Error("expected error for end <= start")
	}
}

func TestFindByNameReturnsNoErrorOnEmptyMatch(t *testing.T) {
	pids, err := FindByName("definitely-not-a-real-process-name-xyz")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if len(pids) != 0 {
		t.Errorf("got %v, want no matches", pids)
	}
}
