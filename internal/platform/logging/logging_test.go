package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(Config{Level: "debug", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.WithField("session_id", "s-1").Debug("attack applied")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["msg"] != "attack applied" {
		t.Fatalf("unexpected msg %v", entry["msg"])
	}
	if entry["session_id"] != "s-1" {
		t.Fatalf("expected session_id field, got %v", entry["session_id"])
	}
}

func TestNewWithWriterFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(Config{Level: "warn", Format: "text"}, &buf)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected info line to be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("expected warn line, got %q", out)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	if _, err := New(Config{Level: "loud", Format: "text"}); err == nil {
		t.Fatal("expected level error")
	}
	if _, err := New(Config{Level: "info", Format: "xml"}); err == nil {
		t.Fatal("expected format error")
	}
}
