package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func logRequest(t *testing.T, h http.Handler, target string) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	w := httptest.NewRecorder()
	Logging(logger)(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not one JSON record: %v\n%s", err, buf.String())
	}
	return entry
}

func TestLogging_Success(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("swagger"))
	})

	entry := logRequest(t, h, "/v2/api-docs?group=pets")

	if entry["msg"] != "request completed" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["level"] != "INFO" {
		t.Errorf("level = %v", entry["level"])
	}
	if entry["path"] != "/v2/api-docs" {
		t.Errorf("path = %v", entry["path"])
	}
	if entry["query"] != "group=pets" {
		t.Errorf("query = %v", entry["query"])
	}
	if entry["status"] != float64(http.StatusOK) {
		t.Errorf("status = %v", entry["status"])
	}
	if entry["bytes"] != float64(len("swagger")) {
		t.Errorf("bytes = %v", entry["bytes"])
	}
	if _, ok := entry["duration"]; !ok {
		t.Error("expected duration in log output")
	}
}

func TestLogging_Statuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  string
		msg    string
	}{
		{"not found", http.StatusNotFound, "INFO", "request completed"},
		{"internal", http.StatusInternalServerError, "ERROR", "request failed"},
		{"unavailable", http.StatusServiceUnavailable, "ERROR", "request failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.WriteHeader(http.StatusOK) // ignored
			})
			entry := logRequest(t, h, "/v2/api-docs")

			if entry["status"] != float64(tt.status) {
				t.Errorf("status = %v, want %d", entry["status"], tt.status)
			}
			if entry["level"] != tt.level {
				t.Errorf("level = %v, want %s", entry["level"], tt.level)
			}
			if entry["msg"] != tt.msg {
				t.Errorf("msg = %v, want %s", entry["msg"], tt.msg)
			}
		})
	}
}

func TestLogging_NoQuery(t *testing.T) {
	entry := logRequest(t, http.NotFoundHandler(), "/swagger-resources")
	if _, ok := entry["query"]; ok {
		t.Errorf("unexpected query attribute: %v", entry["query"])
	}
}

func TestLogging_NilLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	w := httptest.NewRecorder()
	Logging(nil)(http.NotFoundHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	if !strings.Contains(buf.String(), "status=404") {
		t.Errorf("expected default logger output, got %q", buf.String())
	}
}

func TestStatusRecorder_Unwrap(t *testing.T) {
	w := httptest.NewRecorder()
	rec := &statusRecorder{ResponseWriter: w}
	if rec.Unwrap() != w {
		t.Error("Unwrap did not return the wrapped writer")
	}
}
