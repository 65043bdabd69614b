package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "goban.log")
	log, err := New("debug", path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Debugw("move played", "x", 3, "y", 4)
	log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "move played") {
		t.Errorf("log file missing entry:\n%s", data)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goban.log")
	log, err := New("warn", path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Infow("quiet")
	log.Warnw("loud")
	log.Sync()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "quiet") || !strings.Contains(string(data), "loud") {
		t.Errorf("unexpected log content:\n%s", data)
	}
}

func TestNewWithoutPathDiscards(t *testing.T) {
	log, err := New("info", "")
	if err != nil || log == nil {
		t.Fatalf("New: %v, %v", log, err)
	}
	log.Infow("nowhere")
}

func TestNewBadLevel(t *testing.T) {
	if _, err := New("chatty", filepath.Join(t.TempDir(), "x.log")); err == nil {
		t.Error("expected error for an unknown level")
	}
}
