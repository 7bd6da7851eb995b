package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/garbled1/ps-ripper/internal/logging"
)

func TestNewWritesToFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "psrip.log")

	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "console",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("disc archived",
		logging.String(logging.FieldLabel, "TOMBI"),
		logging.String(logging.FieldUniqueID, "SLUS-90001"),
	)

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, "INFO disc archived") {
		t.Fatalf("unexpected log line: %q", line)
	}
	if !strings.Contains(line, "label=TOMBI") || !strings.Contains(line, "unique_id=SLUS-90001") {
		t.Fatalf("missing attributes in log line: %q", line)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestComponentBecomesPrefix(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "psrip.log")

	logger, err := logging.New(logging.Options{Format: "console", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "state-machine").Info("waiting for media")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "state-machine: waiting for media") {
		t.Fatalf("component prefix missing: %q", string(data))
	}
}

func TestDebugSuppressedAtInfoLevel(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "psrip.log")

	logger, err := logging.New(logging.Options{Level: "info", Format: "console", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("polling drive")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("expected empty log, got %q", string(data))
	}
}
