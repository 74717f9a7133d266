package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newBufferLogger(buf *bytes.Buffer) *Logger {
	return New(Config{Level: slog.LevelDebug, Component: ComponentEvents, Output: buf})
}

func TestLogger_AddsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf)

	logger.Info("hello", FieldEventID, "evt_1")

	out := buf.String()
	if !strings.Contains(out, "component=events") {
		t.Errorf("output %q missing component", out)
	}
	if !strings.Contains(out, "event_id=evt_1") {
		t.Errorf("output %q missing event_id", out)
	}
}

func TestLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf).WithComponent(ComponentStorage)

	if logger.Component() != ComponentStorage {
		t.Fatalf("Component() = %q, want %q", logger.Component(), ComponentStorage)
	}
	logger.Warn("slow write")
	if !strings.Contains(buf.String(), "component=storage") {
		t.Errorf("output %q missing storage component", buf.String())
	}
}

func TestLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Output: &buf})

	logger.Info("dropped")
	logger.Debug("dropped too")
	if buf.Len() != 0 {
		t.Errorf("expected no output below warn, got %q", buf.String())
	}
	logger.Error("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("output %q missing error record", buf.String())
	}
}

func TestFromContext(t *testing.T) {
	logger := Discard()
	ctx := WithLogger(context.Background(), logger)
	if got := FromContext(ctx); got != logger {
		t.Errorf("FromContext returned a different logger")
	}
	if got := FromContext(context.Background()); got.Component() != "unknown" {
		t.Errorf("fallback component = %q, want unknown", got.Component())
	}
}

func TestStructuredLogger_LevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusOK, "level=INFO"},
		{http.StatusNotFound, "level=WARN"},
		{http.StatusInternalServerError, "level=ERROR"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		sl := NewStructuredLogger(newBufferLogger(&buf))
		r := httptest.NewRequest(http.MethodPost, "/events", nil)

		sl.LogHTTPEnd(context.Background(), r, "req_1", tt.status, 1500, "127.0.0.1")

		for _, want := range []string{tt.want, "duration_ms=1500", "duration_human=1.5s"} {
			if !strings.Contains(buf.String(), want) {
				t.Errorf("status %d: output %q missing %q", tt.status, buf.String(), want)
			}
		}
	}
}

func TestStructuredLogger_LogError(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newBufferLogger(&buf))

	sl.LogError(context.Background(), "save failed", errors.New("disk full"), ComponentStorage, OpSave,
		NewFields().WithEvent("evt_1", "Trip", "2024-01-01", 2).WithErrorType(ErrorTypeDatabase))

	out := buf.String()
	for _, want := range []string{"level=ERROR", "component=storage", "operation=save", "error=\"disk full\"", "entry_count=2", "error_type=database_error"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}
