package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
server:
  port: "9090"
redis:
  addr: localhost:6379
  ttl: 45m
sqlite:
  path: catalog.db
quiz:
  secondsPerQuestion: 20
  tickInterval: 500ms
  catalogFile: quizzes.yaml
  catalogTTL: 2m
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.SQLite.Path != "catalog.db" {
		t.Fatalf("unexpected sqlite path %q", cfg.SQLite.Path)
	}
	if cfg.Quiz.SecondsPerQuestion != 20 || cfg.Quiz.CatalogFile != "quizzes.yaml" {
		t.Fatalf("unexpected quiz config %+v", cfg.Quiz)
	}
	if d := Duration(cfg.Quiz.TickInterval, time.Second); d != 500*time.Millisecond {
		t.Fatalf("expected 500ms tick, got %s", d)
	}
	if d := Duration(cfg.Quiz.CatalogTTL, time.Minute); d != 2*time.Minute {
		t.Fatalf("expected 2m catalog ttl, got %s", d)
	}
}

func TestDurationFallback(t *testing.T) {
	for _, raw := range []string{"", "soon", "-1s"} {
		if d := Duration(raw, time.Minute); d != time.Minute {
			t.Fatalf("%q: expected fallback, got %s", raw, d)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error")
	}
}
