package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn")
	log.Info("hidden")
	log.Warn("shown", "endpoint", "/api/chat")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "manas: shown") || !strings.Contains(out, "endpoint=/api/chat") {
		t.Fatalf("unexpected log output: %q", out)
	}
}

func TestNewUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "loud")
	log.Debug("quiet")
	log.Info("visible")
	if strings.Contains(buf.String(), "quiet") || !strings.Contains(buf.String(), "visible") {
		t.Fatalf("unexpected log output: %q", buf.String())
	}
}

func TestOpenAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "manas.log")
	log, closer, err := Open(path, "info")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	log.Info("started")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(raw), "started") {
		t.Fatalf("expected log line, got %q", raw)
	}
}
