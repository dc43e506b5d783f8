package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigRejectsUnknownField(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	content := `{
  "components": {
    "timeout_sec": 30,
    "unknown_field": 1
  }
}`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := LoadConfig(cfgPath)
	if err == nil {
		t.Fatalf("expected unknown field error")
	}
	if !strings.Contains(strings.ToLower(err.Error()), "unknown field") {
		t.Fatalf("expected unknown field error, got: %v", err)
	}
}

func TestLoadConfigRejectsTrailingJSONContent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	content := `{"components":{"timeout_sec":30}}{"extra":true}`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := LoadConfig(cfgPath)
	if err == nil {
		t.Fatalf("expected trailing json content error")
	}
	if !strings.Contains(err.Error(), "trailing JSON content") {
		t.Fatalf("expected trailing JSON content error, got: %v", err)
	}
}

func TestLoadConfigMergesOverDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	content := `{
  "components": {
    "timeout_sec": 15,
    "click_limit": 3,
    "allow_from": ["1234"]
  }
}`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if got := cfg.SessionTimeout(); got != 15*time.Second {
		t.Fatalf("timeout mismatch: got %v", got)
	}
	if got := cfg.Components.ClickLimit; got != 3 {
		t.Fatalf("click_limit mismatch: got %d", got)
	}
	if got := cfg.Components.NotAllowedNotice; got != "You're not allowed to interact with this component." {
		t.Fatalf("default notice lost: %q", got)
	}
	if errs := Validate(cfg); len(errs) != 0 {
		t.Fatalf("unexpected validation errors: %v", errs)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Components.TimeoutSec != 60 || cfg.Components.EditsPerSecond != 5 {
		t.Fatalf("unexpected defaults: %+v", cfg.Components)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("TUNGSTEN_COMPONENTS_CLICK_LIMIT", "7")
	t.Setenv("TUNGSTEN_CHANNELS_DISCORD_TOKEN", "secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Components.ClickLimit != 7 {
		t.Fatalf("env click limit not applied: %d", cfg.Components.ClickLimit)
	}
	if cfg.Channels.Discord.Token != "secret" {
		t.Fatalf("env token not applied")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := DefaultConfig()
	cfg.Gateway.Port = 19000
	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if loaded.GatewayAddr() != "127.0.0.1:19000" {
		t.Fatalf("unexpected gateway addr %q", loaded.GatewayAddr())
	}
}

func TestValidateReportsProblems(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Components.TimeoutSec = 0
	cfg.Components.ClickLimit = -1
	cfg.Components.AllowFrom = []string{"ok", " "}
	cfg.Channels.Discord.Enabled = true
	cfg.Gateway.Port = 70000

	errs := Validate(cfg)
	want := []string{
		"components.timeout_sec",
		"components.click_limit",
		"components.allow_from[1]",
		"gateway.port",
		"channels.discord.token",
	}
	joined := ""
	for _, err := range errs {
		joined += err.Error() + "\n"
	}
	for _, w := range want {
		if !strings.Contains(joined, w) {
			t.Fatalf("missing %q in validation errors:\n%s", w, joined)
		}
	}
	if len(errs) != len(want) {
		t.Fatalf("expected %d errors, got %d:\n%s", len(want), len(errs), joined)
	}
}
