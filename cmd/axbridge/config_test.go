package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "axbridge.yaml")
	data := `url: https://example.com/app
browser:
  headful: true
engine:
  name_limit: 120
bridge:
  http_addr: "127.0.0.1:9900"
routes_db: db/routes.db
retention:
  tool_calls_days: 3
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.URL != "https://example.com/app" {
		t.Errorf("url: %q", cfg.URL)
	}
	if !cfg.Browser.Headful {
		t.Error("headful not parsed")
	}
	if cfg.Engine.NameLimit != 120 {
		t.Errorf("name limit: %d", cfg.Engine.NameLimit)
	}
	if cfg.Bridge.HTTPAddr != "127.0.0.1:9900" {
		t.Errorf("http addr: %q", cfg.Bridge.HTTPAddr)
	}
	if cfg.RoutesDB != "db/routes.db" {
		t.Errorf("routes db: %q", cfg.RoutesDB)
	}
	if cfg.Retention.ToolCallsDays != 3 {
		t.Errorf("tool call retention: %d", cfg.Retention.ToolCallsDays)
	}
	if cfg.Retention.HeartbeatsDays != 14 {
		t.Errorf("heartbeat retention not defaulted: %d", cfg.Retention.HeartbeatsDays)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Bridge.HTTPAddr == "" {
		t.Error("http addr not defaulted")
	}
	if cfg.Retention.ToolCallsDays != 14 || cfg.Retention.HeartbeatsDays != 14 {
		t.Errorf("retention not defaulted: %+v", cfg.Retention)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := loadConfig("/nonexistent/axbridge.yaml"); err == nil {
		t.Fatal("expected error")
	}
}
