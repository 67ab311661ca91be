package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Grical.BaseURL != "https://grical.org" || cfg.Grical.Timeout != 15*time.Second {
		t.Errorf("unexpected grical defaults: %+v", cfg.Grical)
	}
	if cfg.Redis.Addr != "" || cfg.Mongo.URI != "" {
		t.Errorf("cache and audit store must be disabled by default")
	}
	if cfg.Redis.TTL != time.Minute || cfg.Audit.Workers != 4 {
		t.Errorf("unexpected defaults: ttl=%s workers=%d", cfg.Redis.TTL, cfg.Audit.Workers)
	}
	if !cfg.IsDevelopment() {
		t.Errorf("expected development environment")
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":            "9090",
		"GRICAL_BASE_URL": "http://localhost:8000",
		"REDIS_ADDR":      "localhost:6379",
		"CACHE_TTL":       "5m",
		"LOG_PRETTY":      "true",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" || cfg.Grical.BaseURL != "http://localhost:8000" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.TTL != 5*time.Minute || !cfg.LogPretty {
		t.Errorf("overrides not applied: %+v", cfg.Redis)
	}
}

func TestLoadMarkers_DefaultsWithoutFile(t *testing.T) {
	mf, err := LoadMarkers("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mf.Markers.Default != DefaultMarker || mf.Markers.Individual != IndividualMarker {
		t.Errorf("unexpected markers: %+v", mf.Markers)
	}
}

func TestLoadMarkers_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "markers.yaml")
	content := "overlay: berlin-events\nmarkers:\n  default: pin_blue.png\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	mf, err := LoadMarkers(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mf.Overlay != "berlin-events" {
		t.Errorf("unexpected overlay name: %q", mf.Overlay)
	}
	if mf.Markers.Default != "pin_blue.png" || mf.Markers.Individual != IndividualMarker {
		t.Errorf("unexpected markers: %+v", mf.Markers)
	}
}

func TestLoadMarkers_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "markers.yaml")
	if err := os.WriteFile(path, []byte("markers: [not, a, map]\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := LoadMarkers(path); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := LoadMarkers(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected read error")
	}
}
