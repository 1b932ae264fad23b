package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	applogger "StockCast/pkg/logger"
)

func newFileLogger(t *testing.T) (*applogger.Logger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "http.log")
	l, err := applogger.New(&applogger.Config{Level: "debug", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	return l, path
}

func serve(t *testing.T, h http.Handler, target string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
}

func TestMetricsLogsServerErrors(t *testing.T) {
	l, path := newFileLogger(t)

	h := Metrics(l, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	serve(t, h, "/api/predict")

	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(out), "http request failed") {
		t.Fatalf("missing error entry, log: %q", out)
	}
	if !strings.Contains(string(out), "/api/predict") {
		t.Fatalf("missing path label, log: %q", out)
	}
}

func TestMetricsLogsSlowRequests(t *testing.T) {
	l, path := newFileLogger(t)

	h := Metrics(l, time.Nanosecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	serve(t, h, "/api/historical")

	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(out), "http request slow") {
		t.Fatalf("missing slow entry, log: %q", out)
	}
}

func TestMetricsQuietOnHealthyRequests(t *testing.T) {
	l, path := newFileLogger(t)

	h := Metrics(l, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	serve(t, h, "/api/companies")

	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("unexpected log output: %q", out)
	}
}
