package driver

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "tsg.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Entry != EntryFuncName {
		t.Fatalf("expected default entry %q, got %q", EntryFuncName, cfg.Entry)
	}
}

func TestLoadConfigDecodesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tsg.toml")
	contents := "entry = \"start\"\noptimize = true\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Entry != "start" || !cfg.Optimize {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}
