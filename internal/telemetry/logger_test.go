package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	logger, closer, err := New(path, "debug")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Info("line settled", "line", 2)
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "line settled") || !strings.Contains(out, "line=2") {
		t.Errorf("expected logfmt entry, got %q", out)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, _, err := New("", "loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNewWithoutPathDiscards(t *testing.T) {
	logger, closer, err := New("", "info")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Info("dropped")
	if err := closer.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}
