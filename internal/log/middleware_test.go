package log

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newCaptureLogger(buf *bytes.Buffer) *Logger {
	return New(Config{
		Level:     slog.LevelDebug,
		Component: ComponentHTTP,
		Handler:   slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
}

func TestAccessLog_LogsStartAndCompletion(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newCaptureLogger(&buf))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	handler := AccessLog(sl, func(r *http.Request) string { return "10.0.0.7" })(next)

	req := httptest.NewRequest(http.MethodPost, "/api/transactions?month=2025-03", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201 to pass through, got %d", rec.Code)
	}

	out := buf.String()
	if !strings.Contains(out, "HTTP request started") {
		t.Error("Expected a start record in the log output")
	}
	if !strings.Contains(out, "HTTP request completed") {
		t.Error("Expected a completion record in the log output")
	}
	if !strings.Contains(out, FieldStatusCode+"=201") {
		t.Errorf("Expected captured status code 201 in the log output, got:\n%s", out)
	}
	if !strings.Contains(out, FieldClientIP+"=10.0.0.7") {
		t.Errorf("Expected client IP in the log output, got:\n%s", out)
	}
	if !strings.Contains(out, FieldPath+"=/api/transactions") {
		t.Errorf("Expected request path in the log output, got:\n%s", out)
	}
}

func TestAccessLog_DefaultsToOKWithoutExplicitWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newCaptureLogger(&buf))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})
	handler := AccessLog(sl, func(r *http.Request) string { return "" })(next)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !strings.Contains(buf.String(), FieldStatusCode+"=200") {
		t.Errorf("Expected implicit 200 in the log output, got:\n%s", buf.String())
	}
}

func TestAccessLog_ErrorStatusLogsAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newCaptureLogger(&buf))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	handler := AccessLog(sl, func(r *http.Request) string { return "" })(next)

	req := httptest.NewRequest(http.MethodGet, "/api/summary/dashboard", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	out := buf.String()
	if !strings.Contains(out, "level=ERROR") {
		t.Errorf("Expected 5xx completion at error level, got:\n%s", out)
	}
	if !strings.Contains(out, FieldSuccess+"=false") {
		t.Errorf("Expected success=false for a 5xx response, got:\n%s", out)
	}
}
