package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, level := NewWithWriter(&buf, false, false)

	logger.Debug("hidden")
	logger.Info("scraping page", slog.Int("page", 2))

	if level.Level() != slog.LevelInfo {
		t.Fatalf("level=%v, want info", level.Level())
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("lines=%d, want 1: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry["msg"] != "scraping page" || entry["page"] != float64(2) {
		t.Fatalf("entry=%v", entry)
	}
}

func TestNewWithWriterVerboseText(t *testing.T) {
	var buf bytes.Buffer
	logger, level := NewWithWriter(&buf, true, true)

	logger.Debug("retrying fetch", slog.String("url", "http://example.test"))

	if level.Level() != slog.LevelDebug {
		t.Fatalf("level=%v, want debug", level.Level())
	}
	out := buf.String()
	if !strings.Contains(out, "level=DEBUG") || !strings.Contains(out, "url=http://example.test") {
		t.Fatalf("unexpected output %q", out)
	}
}
