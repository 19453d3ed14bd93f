package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	// Empty directory: no config file, defaults apply.
	settings, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if settings.Snap.Policy != "velocity" {
		t.Errorf("snap.policy = %q, want %q", settings.Snap.Policy, "velocity")
	}
	if settings.Sink.Address != "127.0.0.1:5005" {
		t.Errorf("sink.address = %q, want 127.0.0.1:5005", settings.Sink.Address)
	}
	if !settings.Sink.EmitFull {
		t.Error("sink.emitFull default = false, want true")
	}
	if settings.Camera.MotionThreshold != 1.0 {
		t.Errorf("camera.motionThreshold = %f, want 1.0", settings.Camera.MotionThreshold)
	}
	if settings.HTTP.Address != ":8080" {
		t.Errorf("http.address = %q, want :8080", settings.HTTP.Address)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	contents := `{
		"logLevel": "debug",
		"snap": {"policy": "edge", "velocityThreshold": 0.08},
		"sink": {"address": "127.0.0.1:6000", "emitFull": false},
		"camera": {"id": 2}
	}`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	settings, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if settings.LogLevel != "debug" {
		t.Errorf("logLevel = %q, want debug", settings.LogLevel)
	}
	if settings.Snap.Policy != "edge" {
		t.Errorf("snap.policy = %q, want edge", settings.Snap.Policy)
	}
	if settings.Snap.VelocityThreshold != 0.08 {
		t.Errorf("snap.velocityThreshold = %f, want 0.08", settings.Snap.VelocityThreshold)
	}
	if settings.Sink.Address != "127.0.0.1:6000" {
		t.Errorf("sink.address = %q, want 127.0.0.1:6000", settings.Sink.Address)
	}
	if settings.Sink.EmitFull {
		t.Error("sink.emitFull = true, want false")
	}
	if settings.Camera.ID != 2 {
		t.Errorf("camera.id = %d, want 2", settings.Camera.ID)
	}

	// Untouched keys keep their defaults.
	if settings.HTTP.Address != ":8080" {
		t.Errorf("http.address = %q, want default :8080", settings.HTTP.Address)
	}
}

func TestLoad_RejectsBadPolicy(t *testing.T) {
	dir := t.TempDir()
	contents := `{"snap": {"policy": "hybrid"}}`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(dir); err == nil {
		t.Error("expected error for unknown snap.policy")
	}
}
