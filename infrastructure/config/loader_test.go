package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  address: ":9090"
inference:
  enabled: true
  timeout_seconds: 60
workers:
  max_size: 8
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Address != ":9090" {
		t.Errorf("address = %q, want :9090", cfg.Server.Address)
	}
	if !cfg.Inference.Enabled {
		t.Error("inference.enabled override not applied")
	}
	if cfg.Inference.TimeoutSeconds != 60 {
		t.Errorf("timeout_seconds = %d, want 60", cfg.Inference.TimeoutSeconds)
	}
	if cfg.Workers.MaxSize != 8 {
		t.Errorf("workers.max_size = %d, want 8", cfg.Workers.MaxSize)
	}

	// Untouched fields keep their defaults.
	if cfg.Workers.QueueCapacity != 16 {
		t.Errorf("queue_capacity = %d, want default 16", cfg.Workers.QueueCapacity)
	}
	if cfg.Heuristic.MotionThreshold != 12.0 {
		t.Errorf("motion_threshold = %v, want default 12.0", cfg.Heuristic.MotionThreshold)
	}
	if cfg.Pipeline.FallbackFPS != 30.0 {
		t.Errorf("fallback_fps = %v, want default 30.0", cfg.Pipeline.FallbackFPS)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load should fail for a missing file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [not a mapping"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load should fail for malformed yaml")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Server.Address = ":7070"
	cfg.Inference.Enabled = true
	cfg.Heuristic.MotionThreshold = 20.5

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Server.Address != ":7070" {
		t.Errorf("address = %q, want :7070", loaded.Server.Address)
	}
	if !loaded.Inference.Enabled {
		t.Error("inference.enabled lost in round trip")
	}
	if loaded.Heuristic.MotionThreshold != 20.5 {
		t.Errorf("motion_threshold = %v, want 20.5", loaded.Heuristic.MotionThreshold)
	}
}

func TestInferenceTimeout(t *testing.T) {
	cfg := InferenceConfig{TimeoutSeconds: 300}
	if got := cfg.Timeout(); got != 5*time.Minute {
		t.Errorf("Timeout() = %v, want 5m", got)
	}
}
