package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WAEX_CONFIG", filepath.Join(t.TempDir(), "absent.json"))

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Bind != "127.0.0.1" || cfg.Port != "9876" {
		t.Errorf("listen defaults = %s:%s", cfg.Bind, cfg.Port)
	}
	if cfg.WhatsAppURL != "https://web.whatsapp.com" {
		t.Errorf("WhatsAppURL = %q", cfg.WhatsAppURL)
	}
	if !cfg.OpenTab {
		t.Error("OpenTab should default on")
	}
	if cfg.Headless {
		t.Error("Headless should default off")
	}
	if cfg.StateDir == "" || cfg.OutputDir == "" || cfg.ProfileDir == "" {
		t.Errorf("directories not defaulted: %+v", cfg)
	}
	if cfg.ScrollSettle != 800*time.Millisecond || cfg.ScrollMaxAttempts != 20 || cfg.ScrollStableRounds != 3 {
		t.Errorf("scroll defaults = %v/%d/%d", cfg.ScrollSettle, cfg.ScrollMaxAttempts, cfg.ScrollStableRounds)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("WAEX_CONFIG", filepath.Join(t.TempDir(), "absent.json"))
	t.Setenv("WAEX_PORT", "7000")
	t.Setenv("WAEX_HEADLESS", "true")
	t.Setenv("WAEX_PANEL_TIMEOUT", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "7000" || !cfg.Headless || cfg.PanelTimeout != 5*time.Second {
		t.Errorf("env not applied: %+v", cfg)
	}
}

func TestLoadFileOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	fc := FileConfig{Port: "7777", Token: "filetoken"}
	data, _ := json.Marshal(fc)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("WAEX_CONFIG", path)
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "7777" || cfg.Token != "filetoken" {
		t.Errorf("file overlay not applied: port=%s token=%s", cfg.Port, cfg.Token)
	}
}

func TestLoadEnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	data, _ := json.Marshal(FileConfig{Port: "7777"})
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("WAEX_CONFIG", path)
	t.Setenv("WAEX_PORT", "8888")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "8888" {
		t.Errorf("port = %s, env must win over file", cfg.Port)
	}
}

func TestListenAddr(t *testing.T) {
	cfg := &RuntimeConfig{Bind: "0.0.0.0", Port: "9000"}
	if got := cfg.ListenAddr(); got != "0.0.0.0:9000" {
		t.Errorf("ListenAddr = %q", got)
	}
}

func TestMaskToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "(none)"},
		{"short", "***"},
		{"12345678", "***"},
		{"secrettoken123", "secr...n123"},
	}
	for _, tt := range tests {
		if got := MaskToken(tt.in); got != tt.want {
			t.Errorf("MaskToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
