package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "teesheet.out")
	logger, err := NewLogger(path, "debug")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	logger.With("preset", "weekday").Info("saved %d slots", 2)
	logger.Debug("debug line")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	for _, want := range []string{"saved 2 slots", `"preset":"weekday"`, "debug line"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teesheet.out")
	logger, err := NewLogger(path, "warn")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	logger.Info("hidden")
	logger.Warning("shown")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Contains(string(data), "hidden") {
		t.Fatalf("info line written at warn level")
	}
	if !strings.Contains(string(data), "shown") {
		t.Fatalf("warning line missing")
	}
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	if _, err := NewLogger(filepath.Join(t.TempDir(), "x.out"), "chatty"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
