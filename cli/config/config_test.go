package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/justapithecus/arenaviz/ingest"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arenaviz.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func assertEqual(t *testing.T, field, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %q, want %q", field, got, want)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	yaml := `source: qualifier-3

ingest:
  trailing_lines: 0
  robots: replace
  strict: true

playback:
  tick: 50ms
  paused: true

log:
  level: debug
  file: /tmp/arenaviz.log

storage:
  dataset: replays
  backend: s3
  path: my-bucket/prefix
  region: us-east-1
  endpoint: https://example.com
  s3_path_style: true

adapter:
  type: webhook
  url: https://hooks.example.com/arenaviz
  headers:
    Authorization: Bearer token
  timeout: 3s
  retries: 0
`
	cfg, err := Load(writeTemp(t, yaml))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	assertEqual(t, "source", cfg.Source, "qualifier-3")
	if cfg.Ingest.TrailingLines == nil || *cfg.Ingest.TrailingLines != 0 {
		t.Errorf("ingest.trailing_lines = %v, want explicit 0", cfg.Ingest.TrailingLines)
	}
	assertEqual(t, "ingest.robots", cfg.Ingest.Robots, "replace")
	if !cfg.Ingest.Strict {
		t.Error("expected ingest.strict=true")
	}
	if cfg.Playback.Tick.Duration != 50*time.Millisecond {
		t.Errorf("playback.tick = %v, want 50ms", cfg.Playback.Tick.Duration)
	}
	if !cfg.Playback.Paused {
		t.Error("expected playback.paused=true")
	}
	assertEqual(t, "log.level", cfg.Log.Level, "debug")
	assertEqual(t, "log.file", cfg.Log.File, "/tmp/arenaviz.log")
	assertEqual(t, "storage.dataset", cfg.Storage.Dataset, "replays")
	assertEqual(t, "storage.backend", cfg.Storage.Backend, "s3")
	assertEqual(t, "storage.path", cfg.Storage.Path, "my-bucket/prefix")
	assertEqual(t, "storage.region", cfg.Storage.Region, "us-east-1")
	assertEqual(t, "storage.endpoint", cfg.Storage.Endpoint, "https://example.com")
	if !cfg.Storage.S3PathStyle {
		t.Error("expected storage.s3_path_style=true")
	}
	assertEqual(t, "adapter.type", cfg.Adapter.Type, "webhook")
	assertEqual(t, "adapter.url", cfg.Adapter.URL, "https://hooks.example.com/arenaviz")
	assertEqual(t, "adapter.headers", cfg.Adapter.Headers["Authorization"], "Bearer token")
	if cfg.Adapter.Timeout.Duration != 3*time.Second {
		t.Errorf("adapter.timeout = %v, want 3s", cfg.Adapter.Timeout.Duration)
	}
	if cfg.Adapter.Retries == nil || *cfg.Adapter.Retries != 0 {
		t.Errorf("adapter.retries = %v, want explicit 0", cfg.Adapter.Retries)
	}

	ic, err := cfg.IngestConfig()
	if err != nil {
		t.Fatalf("IngestConfig failed: %v", err)
	}
	want := ingest.Config{TrailingLines: 0, Robots: ingest.RobotsReplace, Strict: true}
	if ic != want {
		t.Errorf("IngestConfig = %+v, want %+v", ic, want)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("ARENAVIZ_BUCKET", "replays-bucket")

	yaml := `storage:
  backend: ${ARENAVIZ_BACKEND:-s3}
  path: ${ARENAVIZ_BUCKET}/logs
log:
  level: ${ARENAVIZ_LOG_LEVEL:-info}
`
	cfg, err := Load(writeTemp(t, yaml))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertEqual(t, "storage.backend", cfg.Storage.Backend, "s3")
	assertEqual(t, "storage.path", cfg.Storage.Path, "replays-bucket/logs")
	assertEqual(t, "log.level", cfg.Log.Level, "info")
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := Load(writeTemp(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	ic, err := cfg.IngestConfig()
	if err != nil {
		t.Fatalf("IngestConfig failed: %v", err)
	}
	if ic != ingest.DefaultConfig() {
		t.Errorf("IngestConfig = %+v, want defaults", ic)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantSub string
	}{
		{"invalid yaml", "ingest: [unclosed", "invalid YAML"},
		{"bad duration", "playback:\n  tick: soon\n", "invalid duration"},
		{"bad robots", "ingest:\n  robots: dedupe\n", "ingest.robots"},
		{"negative trailing", "ingest:\n  trailing_lines: -1\n", "trailing_lines"},
		{"bad level", "log:\n  level: loud\n", "log.level"},
		{"bad backend", "storage:\n  backend: gcs\n", "storage.backend"},
		{"bad adapter", "adapter:\n  type: kafka\n", "adapter.type"},
		{"negative retries", "adapter:\n  retries: -2\n", "adapter.retries"},
		{"bad notify type", "notify:\n  - type: kafka\n    url: x\n", "notify[0].type"},
		{"negative notify retries", "notify:\n  - type: redis\n  - type: webhook\n    retries: -1\n", "notify[1].retries"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTemp(t, tt.yaml))
			if err == nil {
				t.Fatal("Load succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestLoad_NotifyList(t *testing.T) {
	yaml := `
adapter:
  type: webhook
  url: https://hooks.example.com/a
notify:
  - type: redis
    url: redis://localhost:6379
    channel: replays
  - type: webhook
    url: https://hooks.example.com/b
`
	cfg, err := Load(writeTemp(t, yaml))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Notify) != 2 {
		t.Fatalf("notify = %+v, want 2 entries", cfg.Notify)
	}
	assertEqual(t, "notify[0].type", cfg.Notify[0].Type, "redis")
	assertEqual(t, "notify[0].channel", cfg.Notify[0].Channel, "replays")
	assertEqual(t, "notify[1].url", cfg.Notify[1].URL, "https://hooks.example.com/b")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("error = %v, want not found", err)
	}
}

func TestLoadOptional(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := LoadOptional("")
	if err != nil || cfg != nil {
		t.Fatalf("LoadOptional without file = (%v, %v), want (nil, nil)", cfg, err)
	}

	if err := os.WriteFile(filepath.Join(dir, DefaultFile), []byte("source: picked-up\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadOptional("")
	if err != nil {
		t.Fatalf("LoadOptional failed: %v", err)
	}
	assertEqual(t, "source", cfg.Source, "picked-up")
}

func TestIngestConfig_NilConfig(t *testing.T) {
	var cfg *Config
	ic, err := cfg.IngestConfig()
	if err != nil || ic != ingest.DefaultConfig() {
		t.Errorf("nil IngestConfig = (%+v, %v)", ic, err)
	}
}
