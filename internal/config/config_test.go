package config

import (
	"path/filepath"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.SheetID = "sheet-123"
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("expected default api_url %q, got %q", DefaultAPIURL, cfg.APIURL)
	}
	if cfg.Sheets != DefaultSheets {
		t.Errorf("expected default sheet names, got %+v", cfg.Sheets)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.Replay.PollAttempts != 20 {
		t.Errorf("expected default poll_attempts 20, got %d", cfg.Replay.PollAttempts)
	}
	if !cfg.Features.Breadcrumbs || !cfg.Features.SEOMetadata || !cfg.Features.DownloadTracking {
		t.Errorf("expected all features enabled by default, got %+v", cfg.Features)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.studyhub.yml")

	original := validConfig()
	original.Port = 9191
	original.BaseURL = "https://notes.example.com/"
	original.Sheets.Resources = "Material"
	original.Replay.HighlightMS = 1500
	original.Features.DownloadTracking = false

	// Save.
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Load back.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.SheetID != original.SheetID {
		t.Errorf("sheet_id: got %q, want %q", loaded.SheetID, original.SheetID)
	}
	if loaded.Port != original.Port {
		t.Errorf("port: got %d, want %d", loaded.Port, original.Port)
	}
	if loaded.BaseURL != original.BaseURL {
		t.Errorf("base_url: got %q, want %q", loaded.BaseURL, original.BaseURL)
	}
	if loaded.Sheets.Resources != "Material" {
		t.Errorf("sheets.resources: got %q, want %q", loaded.Sheets.Resources, "Material")
	}
	if loaded.Replay.HighlightMS != 1500 {
		t.Errorf("replay.highlight_ms: got %d, want 1500", loaded.Replay.HighlightMS)
	}
	if loaded.Features.DownloadTracking {
		t.Error("features.download_tracking: expected false after round-trip")
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("expected default api_url, got %q", cfg.APIURL)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	if err := validConfig().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("STUDYHUB_SHEET_ID", "from-env")
	t.Setenv("STUDYHUB_PORT", "7070")
	t.Setenv("STUDYHUB_REPLAY__POLL_ATTEMPTS", "3")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.SheetID != "from-env" {
		t.Errorf("env override failed: got %q, want %q", loaded.SheetID, "from-env")
	}
	if loaded.Port != 7070 {
		t.Errorf("port override failed: got %d, want 7070", loaded.Port)
	}
	if loaded.Replay.PollAttempts != 3 {
		t.Errorf("nested override failed: got %d, want 3", loaded.Replay.PollAttempts)
	}
}

func TestValidateValid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("config should be valid, got: %v", err)
	}
}

func TestValidateDefaultNeedsSheetID(t *testing.T) {
	if err := DefaultConfig().Validate(); err == nil {
		t.Error("expected validation error without sheet_id")
	}
}

func TestValidateInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty api url", func(c *Config) { c.APIURL = "" }},
		{"relative api url", func(c *Config) { c.APIURL = "opensheet" }},
		{"empty sheet name", func(c *Config) { c.Sheets.Semesters = "" }},
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"port out of range", func(c *Config) { c.Port = 70000 }},
		{"bad base url", func(c *Config) { c.BaseURL = "notes.example.com" }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"zero poll attempts", func(c *Config) { c.Replay.PollAttempts = 0 }},
		{"zero poll interval", func(c *Config) { c.Replay.PollIntervalMS = 0 }},
		{"negative highlight", func(c *Config) { c.Replay.HighlightMS = -1 }},
		{"negative fetch timeout", func(c *Config) { c.FetchTimeoutSec = -1 }},
		{"bad link host pattern", func(c *Config) { c.AllowedLinkHosts = []string{"[drive"} }},
		{"unknown search provider", func(c *Config) { c.Search.Provider = "bing" }},
		{"openai without key", func(c *Config) { c.Search.Provider = SearchProviderOpenAI }},
		{"ollama without model", func(c *Config) { c.Search.Provider = SearchProviderOllama }},
		{"zero local dimensions", func(c *Config) { c.Search.Dimensions = 0 }},
	}
	for _, tt := range tests {
		cfg := validConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestReplayDurations(t *testing.T) {
	r := ReplayConfig{PollAttempts: 4, PollIntervalMS: 250, HighlightMS: 3000}
	if got := r.PollInterval(); got != 250*time.Millisecond {
		t.Errorf("PollInterval = %v", got)
	}
	if got := r.WaitBudget(); got != time.Second {
		t.Errorf("WaitBudget = %v, want 1s", got)
	}
	if got := r.HighlightDuration(); got != 3*time.Second {
		t.Errorf("HighlightDuration = %v", got)
	}
}

func TestPublicBaseURL(t *testing.T) {
	cfg := validConfig()
	if got := cfg.PublicBaseURL(); got != "http://localhost:8080/" {
		t.Errorf("PublicBaseURL = %q", got)
	}
	cfg.BaseURL = "https://notes.example.com/app/"
	if got := cfg.PublicBaseURL(); got != "https://notes.example.com/app/" {
		t.Errorf("PublicBaseURL = %q", got)
	}
}

func TestValidateSearchDisabledSkipsProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Search = SearchConfig{Enabled: false, Provider: "anything"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled search should not be validated: %v", err)
	}

	cfg.AllowedLinkHosts = []string{"drive.google.com", "*.youtube.com"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid host patterns rejected: %v", err)
	}
}
