package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.Addr != ":8081" {
		t.Errorf("Server.Addr = %q, want :8081", cfg.Server.Addr)
	}
	if cfg.Suggest.APIKeyEnv != DefaultAPIKeyEnv {
		t.Errorf("Suggest.APIKeyEnv = %q, want %q", cfg.Suggest.APIKeyEnv, DefaultAPIKeyEnv)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timetable.yaml")
	yaml := `
server:
  addr: ":9000"
data_dir: /var/lib/timetable
timezone: Europe/Berlin
suggest:
  provider: anthropic
  model: claude-test
  timeout: 5s
client:
  server_url: http://sched:9000
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Suggest.Provider != "anthropic" || cfg.Suggest.Model != "claude-test" {
		t.Errorf("Suggest = %+v", cfg.Suggest)
	}
	if cfg.Suggest.Timeout != 5*time.Second {
		t.Errorf("Suggest.Timeout = %v, want 5s", cfg.Suggest.Timeout)
	}
	// Unset fields keep their defaults.
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.TasksDB() != filepath.Join("/var/lib/timetable", "tasks.db") {
		t.Errorf("TasksDB = %q", cfg.TasksDB())
	}
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location: %v", err)
	}
	if loc.String() != "Europe/Berlin" {
		t.Errorf("Location = %v", loc)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"bad-yaml.yaml":     "server: [",
		"bad-tz.yaml":       "timezone: Mars/Olympus",
		"bad-provider.yaml": "suggest:\n  provider: copilot\n",
	}
	for name, body := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if cfg.Server.Addr != ":8081" {
		t.Errorf("expected defaults, got %+v", cfg.Server)
	}
	if _, err := LoadOrDefault(""); err != nil {
		t.Errorf("LoadOrDefault(\"\"): %v", err)
	}
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("TIMETABLE_TEST_KEY", "from-env")

	s := SuggestConfig{APIKeyEnv: "TIMETABLE_TEST_KEY"}
	if got := s.ResolveAPIKey(); got != "from-env" {
		t.Errorf("ResolveAPIKey = %q, want from-env", got)
	}
	s.APIKey = "explicit"
	if got := s.ResolveAPIKey(); got != "explicit" {
		t.Errorf("ResolveAPIKey = %q, want explicit", got)
	}

	pc := s.ProviderConfig()
	if pc.APIKey != "explicit" {
		t.Errorf("ProviderConfig.APIKey = %q", pc.APIKey)
	}
}
