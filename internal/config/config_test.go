package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WindowDays != 14 {
		t.Errorf("expected default window 14, got %d", cfg.WindowDays)
	}
	if cfg.DBPath == "" {
		t.Error("expected a default db path")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "db_path: /tmp/x.db\nwindow_days: 21\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/tmp/x.db" {
		t.Errorf("expected db path from file, got %q", cfg.DBPath)
	}
	if cfg.WindowDays != 21 {
		t.Errorf("expected window 21, got %d", cfg.WindowDays)
	}
	// Unset fields keep defaults
	if cfg.GeminiModel != "gemini-2.0-flash" {
		t.Errorf("expected default model, got %q", cfg.GeminiModel)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("COACHKIT_DB", "/tmp/env.db")
	t.Setenv("COACHKIT_WINDOW_DAYS", "7")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/tmp/env.db" {
		t.Errorf("expected env db path, got %q", cfg.DBPath)
	}
	if cfg.WindowDays != 7 {
		t.Errorf("expected env window 7, got %d", cfg.WindowDays)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed config")
	}
}
