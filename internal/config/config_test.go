package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.HoldThreshold() != time.Second {
		t.Errorf("expected 1s hold threshold, got %s", cfg.HoldThreshold())
	}
	if cfg.PasteDelay() != 50*time.Millisecond {
		t.Errorf("expected 50ms paste delay, got %s", cfg.PasteDelay())
	}
	if cfg.EmptyTitle != "Empty" || cfg.HoldTitle != "Release to Clear" {
		t.Errorf("unexpected titles: %q / %q", cfg.EmptyTitle, cfg.HoldTitle)
	}
}

func TestLoadFromOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"hold_threshold_ms": 750, "icons": {"filled_locked": "custom/locked"}}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.HoldThresholdMs != 750 {
		t.Errorf("expected 750ms, got %d", cfg.HoldThresholdMs)
	}
	if cfg.Icons.FilledLocked != "custom/locked" {
		t.Errorf("expected overlaid icon, got %q", cfg.Icons.FilledLocked)
	}
	if cfg.Icons.EmptyLocked != Default().Icons.EmptyLocked {
		t.Errorf("unset fields should keep defaults, got %q", cfg.Icons.EmptyLocked)
	}
}

func TestLoadFromEnvironmentOverrides(t *testing.T) {
	t.Setenv("CLIPSLOT_HOLD_THRESHOLD_MS", "250")
	t.Setenv("CLIPSLOT_EMPTY_TITLE", "Copy")
	t.Setenv("CLIPSLOT_TRAY_ENABLED", "true")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.HoldThresholdMs != 250 {
		t.Errorf("expected env threshold 250, got %d", cfg.HoldThresholdMs)
	}
	if cfg.EmptyTitle != "Copy" {
		t.Errorf("expected env title, got %q", cfg.EmptyTitle)
	}
	if !cfg.Tray.Enabled {
		t.Error("expected tray enabled from env")
	}
}

func TestLoadFromRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "malformed", data: `{"hold_threshold_ms":`},
		{name: "zero threshold", data: `{"hold_threshold_ms": 0}`},
		{name: "negative delay", data: `{"inject": {"paste_delay_ms": -5}}`},
		{name: "blank title", data: `{"empty_title": ""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tt.data), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFrom(path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := Default()
	cfg.HoldThresholdMs = 1500
	cfg.Journal.Enabled = false

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.HoldThresholdMs != 1500 || loaded.Journal.Enabled {
		t.Errorf("unexpected round trip result: %+v", loaded)
	}
}

func TestJournalPath(t *testing.T) {
	cfg := Default()
	if filepath.Base(cfg.JournalPath()) != "journal.db" {
		t.Errorf("unexpected default journal path %q", cfg.JournalPath())
	}

	cfg.Journal.Path = "/tmp/custom.db"
	if cfg.JournalPath() != "/tmp/custom.db" {
		t.Errorf("expected explicit journal path, got %q", cfg.JournalPath())
	}
}
