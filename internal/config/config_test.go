package config

import (
	"os"
	"path/filepath"
	"testing"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
	return dir
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	chdirTemp(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg != want {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := chdirTemp(t)
	content := "pool-size = 8\nmin-string-len = 6\ntheme = \"solarized\"\n"
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PoolSize != 8 || cfg.MinStringLen != 6 || cfg.Theme != "solarized" {
		t.Errorf("Load() = %+v", cfg)
	}
}

func TestLoadPartialOverrideKeepsOtherDefaults(t *testing.T) {
	dir := chdirTemp(t)
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("theme = \"mono\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg.PoolSize != want.PoolSize || cfg.MinStringLen != want.MinStringLen {
		t.Errorf("Load() = %+v, want non-theme fields at defaults %+v", cfg, want)
	}
	if cfg.Theme != "mono" {
		t.Errorf("Theme = %q, want mono", cfg.Theme)
	}
}
