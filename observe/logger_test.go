package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		out = append(out, entry)
	}
	return out
}

// TestLogger_JSONFields verifies level, message and fields are encoded.
func TestLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", "json", &buf)

	logger.Info(context.Background(), "secret resolved", F("path", "secret/data/app"), F("entries", 3))

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	e := entries[0]
	if e["level"] != "info" {
		t.Errorf("expected level=info, got %v", e["level"])
	}
	if e["msg"] != "secret resolved" {
		t.Errorf("expected msg='secret resolved', got %v", e["msg"])
	}
	if e["path"] != "secret/data/app" {
		t.Errorf("expected path field, got %v", e["path"])
	}
	if e["entries"] != float64(3) {
		t.Errorf("expected entries=3, got %v", e["entries"])
	}
	if _, ok := e["timestamp"]; !ok {
		t.Error("expected timestamp field")
	}
}

// TestLogger_LevelFiltering verifies entries below the level are dropped.
func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", "json", &buf)
	ctx := context.Background()

	logger.Debug(ctx, "debug")
	logger.Info(ctx, "info")
	logger.Warn(ctx, "warn")
	logger.Error(ctx, "error")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries at warn level, got %d", len(entries))
	}
	if entries[0]["msg"] != "warn" || entries[1]["msg"] != "error" {
		t.Errorf("unexpected entries: %v", entries)
	}
}

// TestLogger_InvalidLevelDefaultsToInfo verifies unknown levels fall back to info.
func TestLogger_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("loud", "json", &buf)

	logger.Debug(context.Background(), "hidden")
	logger.Info(context.Background(), "shown")

	entries := decodeLines(t, &buf)
	if len(entries) != 1 || entries[0]["msg"] != "shown" {
		t.Errorf("expected only the info entry, got %v", entries)
	}
}

// TestLogger_Redaction verifies sensitive keys never reach the output.
func TestLogger_Redaction(t *testing.T) {
	for _, key := range RedactedFields {
		t.Run(key, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLoggerWithWriter("debug", "json", &buf)

			logger.Info(context.Background(), "msg", F(key, "s3cr3t"))

			if strings.Contains(buf.String(), "s3cr3t") {
				t.Fatalf("redacted field %q leaked: %s", key, buf.String())
			}
			entries := decodeLines(t, &buf)
			if entries[0][key] != "[REDACTED]" {
				t.Errorf("expected %q to be [REDACTED], got %v", key, entries[0][key])
			}
		})
	}
}

// TestLogger_With verifies base fields are attached and redacted.
func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", "json", &buf).
		With(F("role", "deploy"), F("token", "hvs.abc"))

	logger.Info(context.Background(), "login")

	entries := decodeLines(t, &buf)
	if entries[0]["role"] != "deploy" {
		t.Errorf("expected role=deploy, got %v", entries[0]["role"])
	}
	if strings.Contains(buf.String(), "hvs.abc") {
		t.Errorf("token leaked: %s", buf.String())
	}
}

// TestLogger_ErrorValue verifies error values are rendered as strings.
func TestLogger_ErrorValue(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", "json", &buf)

	logger.Error(context.Background(), "failed", F("error", errors.New("permission denied")))

	entries := decodeLines(t, &buf)
	if entries[0]["error"] != "permission denied" {
		t.Errorf("expected error string, got %v", entries[0]["error"])
	}
}

// quotedSecretError quotes secret text in its message.
type quotedSecretError struct{ text string }

func (e *quotedSecretError) Error() string { return "cannot decode " + e.text }
func (e *quotedSecretError) Sensitive() string { return e.text }

// TestLogger_SensitiveErrorMasked verifies text reported by a SensitiveError
// is masked even when the error is wrapped.
func TestLogger_SensitiveErrorMasked(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", "json", &buf)

	err := fmt.Errorf("var TOKEN: %w", &quotedSecretError{text: `"s3cr3t"`})
	logger.Error(context.Background(), "failed", F("error", err))

	entries := decodeLines(t, &buf)
	if got := entries[0]["error"]; got != "var TOKEN: cannot decode [REDACTED]" {
		t.Errorf("error = %v, want masked text", got)
	}
}

// TestLogger_ConsoleFormat verifies the console encoder produces plain text.
func TestLogger_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", "console", &buf)

	logger.Info(context.Background(), "hello", F("role", "ci"))

	out := buf.String()
	if !strings.Contains(out, "INFO") || !strings.Contains(out, "hello") {
		t.Errorf("unexpected console output: %q", out)
	}
	if strings.HasPrefix(out, "{") {
		t.Errorf("console output should not be JSON: %q", out)
	}
}

// TestNopLogger verifies the no-op logger is safe to use.
func TestNopLogger(t *testing.T) {
	l := NopLogger()
	ctx := context.Background()
	l.Info(ctx, "x")
	l.Warn(ctx, "x")
	l.Error(ctx, "x")
	l.Debug(ctx, "x")
	if l.With(F("a", 1)) == nil {
		t.Error("With() returned nil")
	}
}
