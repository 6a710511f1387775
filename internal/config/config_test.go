package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.BaseURL != "http://127.0.0.1:8000" || cfg.Timeout != 90*time.Second {
		t.Fatalf("unexpected gateway defaults: %+v", cfg)
	}
	if cfg.MeditationMinutes != 5 || cfg.DetoxMinutes != 30 || cfg.SchedulerBuffer != 64 {
		t.Fatalf("unexpected runtime defaults: %+v", cfg)
	}
	if !strings.HasSuffix(cfg.StorePath, "manas.db") || cfg.UsesFileStore() {
		t.Fatalf("expected sqlite store by default: %+v", cfg)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("MANAS_BASE_URL", "http://backend:9000")
	t.Setenv("MANAS_TIMEOUT", "15")
	t.Setenv("MANAS_USER_NAME", "Asha")
	t.Setenv("MANAS_STORE", "state/manas.json")
	t.Setenv("MANAS_DESKTOP_NOTIFICATIONS", "yes")
	t.Setenv("MANAS_SCHEDULER_BUFFER", "128")
	t.Setenv("MANAS_LOCATION_SHARING", "on")
	t.Setenv("MANAS_LATITUDE", "12.97")
	t.Setenv("MANAS_LONGITUDE", "77.59")
	t.Setenv("MANAS_DETOX_MINUTES", "-5")

	cfg := FromEnv(Default())
	if cfg.BaseURL != "http://backend:9000" || cfg.Timeout != 15*time.Second {
		t.Fatalf("unexpected gateway overrides: %+v", cfg)
	}
	if cfg.UserName != "Asha" || !cfg.UsesFileStore() {
		t.Fatalf("unexpected user/store overrides: %+v", cfg)
	}
	if !cfg.DesktopNotifications || cfg.SchedulerBuffer != 128 {
		t.Fatalf("unexpected runtime overrides: %+v", cfg)
	}
	if !cfg.LocationSharing || cfg.Latitude != 12.97 || cfg.Longitude != 77.59 {
		t.Fatalf("unexpected location overrides: %+v", cfg)
	}
	if cfg.DetoxMinutes != 30 {
		t.Fatalf("negative minutes should be ignored, got %d", cfg.DetoxMinutes)
	}
}

func TestFromFileOverlaysYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "base_url: http://files:8000\ntimeout: 30s\nuser_name: Ravi\nmeditation_minutes: 10\nscheduler_buffer: 0\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := FromFile(Default(), path)
	if err != nil {
		t.Fatalf("from file: %v", err)
	}
	if cfg.BaseURL != "http://files:8000" || cfg.Timeout != 30*time.Second {
		t.Fatalf("unexpected yaml gateway values: %+v", cfg)
	}
	if cfg.UserName != "Ravi" || cfg.MeditationMinutes != 10 {
		t.Fatalf("unexpected yaml values: %+v", cfg)
	}
	if cfg.SchedulerBuffer != 64 {
		t.Fatalf("zero buffer should fall back to default, got %d", cfg.SchedulerBuffer)
	}
}

func TestFromFileMissingIsNotError(t *testing.T) {
	cfg, err := FromFile(Default(), filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestFromFileRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("timeout: [oops"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := FromFile(Default(), path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadEnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("user_name: FromFile\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("MANAS_USER_NAME", "FromEnv")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.UserName != "FromEnv" {
		t.Fatalf("expected env to win, got %q", cfg.UserName)
	}
}
