package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/invalidation"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/model"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/query"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/schema"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/view"
)

func cleanEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"BOOKING_API_URL", "BOOKING_TOKEN", "LOG_LEVEL",
		"REDIS_ADDR", "KAFKA_BROKERS", "OTEL_ENABLED",
		"BOOKING_RATE_LIMIT_PER_SECOND",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("QUERY_RETRY", "0")
}

func runConsole(t *testing.T, srv *httptest.Server, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	all := append([]string{"--api-url", srv.URL}, args...)
	code := run(context.Background(), all, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestServicesListJSON(t *testing.T) {
	cleanEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/services" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":"svc-1","title":"Haircut","price":25,"durationMinutes":30,"images":[],"isActive":true}]`)
	}))
	defer srv.Close()

	code, stdout, stderr := runConsole(t, srv, "-o", "json", "services", "list")
	if code != 0 {
		t.Fatalf("exit code: got %d stderr=%s", code, stderr)
	}
	var got []model.Service
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, stdout)
	}
	if len(got) != 1 || got[0].ID != "svc-1" || got[0].Title != "Haircut" {
		t.Fatalf("unexpected services: %+v", got)
	}
}

func TestSignInShortPasswordExitsWithFieldError(t *testing.T) {
	cleanEnv(t)
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	code, _, stderr := runConsole(t, srv, "-o", "json", "auth", "signin", "--email", "owner@example.com", "--password", "12345")
	if code != 1 {
		t.Fatalf("exit code: got %d want 1", code)
	}
	var body struct {
		Error struct {
			Kind   string            `json:"kind"`
			Fields map[string]string `json:"fields"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(stderr), &body); err != nil {
		t.Fatalf("decode stderr: %v\n%s", err, stderr)
	}
	if body.Error.Kind != "validation" {
		t.Fatalf("kind: got %q", body.Error.Kind)
	}
	if !strings.Contains(body.Error.Fields["password"], "at least 6") {
		t.Fatalf("password message: got %q", body.Error.Fields["password"])
	}
	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Fatalf("backend calls: got %d want 0", n)
	}
}

func TestUnreachableBackendIsReported(t *testing.T) {
	cleanEnv(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	code, _, stderr := runConsole(t, srv, "staff", "list")
	if code != 1 {
		t.Fatalf("exit code: got %d want 1", code)
	}
	if !strings.Contains(stderr, "reach the backend") {
		t.Fatalf("stderr: %s", stderr)
	}
}

func TestDeletePrintsConfirmation(t *testing.T) {
	cleanEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/services/svc-1" {
			t.Errorf("request: got %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	code, stdout, stderr := runConsole(t, srv, "services", "delete", "svc-1")
	if code != 0 {
		t.Fatalf("exit code: got %d stderr=%s", code, stderr)
	}
	if !strings.Contains(stdout, "Service svc-1 deleted.") {
		t.Fatalf("stdout: %q", stdout)
	}
}

func TestCreateSendsDataFlag(t *testing.T) {
	cleanEnv(t)
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method: got %s", r.Method)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"svc-9","title":"Massage","price":60,"durationMinutes":60,"images":[],"isActive":true}`)
	}))
	defer srv.Close()

	code, stdout, stderr := runConsole(t, srv, "-o", "json", "services", "create",
		"--data", `{"title":"Massage","price":60,"durationMinutes":60}`)
	if code != 0 {
		t.Fatalf("exit code: got %d stderr=%s", code, stderr)
	}
	if got["title"] != "Massage" {
		t.Fatalf("sent body: %v", got)
	}
	if !strings.Contains(stdout, `"svc-9"`) {
		t.Fatalf("stdout: %s", stdout)
	}
}

func TestReadBody(t *testing.T) {
	if _, err := readBody[schema.CreateService](strings.NewReader(""), bodyFlags{}); err == nil {
		t.Fatalf("expected error without --data or --file")
	}

	_, err := readBody[schema.CreateService](strings.NewReader(""), bodyFlags{data: `{"tittle":"typo"}`})
	if err == nil || !strings.Contains(err.Error(), "tittle") {
		t.Fatalf("expected unknown field error, got %v", err)
	}

	in, err := readBody[schema.CreateService](strings.NewReader(`{"title":"Nails","durationMinutes":45}`), bodyFlags{file: "-"})
	if err != nil {
		t.Fatalf("stdin: %v", err)
	}
	if in.Title != "Nails" || in.DurationMinutes != 45 {
		t.Fatalf("stdin body: %+v", in)
	}

	path := filepath.Join(t.TempDir(), "service.json")
	if err := os.WriteFile(path, []byte(`{"title":"Facial","durationMinutes":50}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	in, err = readBody[schema.CreateService](nil, bodyFlags{file: path})
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if in.Title != "Facial" {
		t.Fatalf("file body: %+v", in)
	}
}

func TestWatchRefreshesOnInterval(t *testing.T) {
	cleanEnv(t)
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	code, stdout, stderr := runConsole(t, srv, "watch", "currency", "--interval", "10ms", "--times", "2")
	if code != 0 {
		t.Fatalf("exit code: got %d stderr=%s", code, stderr)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Fatalf("backend calls: got %d want 2", n)
	}
	if strings.Count(stdout, "No currency found.") != 2 {
		t.Fatalf("stdout: %q", stdout)
	}
}

func TestWatchUnknownCollection(t *testing.T) {
	cleanEnv(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	code, _, stderr := runConsole(t, srv, "watch", "invoices")
	if code != 1 || !strings.Contains(stderr, `collection "invoices"`) {
		t.Fatalf("got code=%d stderr=%s", code, stderr)
	}
}

func TestDoctorReportsAPI(t *testing.T) {
	cleanEnv(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	code, stdout, stderr := runConsole(t, srv, "-o", "json", "doctor")
	if code != 0 {
		t.Fatalf("exit code: got %d stderr=%s", code, stderr)
	}
	var rows []checkRow
	if err := json.Unmarshal([]byte(stdout), &rows); err != nil {
		t.Fatalf("decode: %v\n%s", err, stdout)
	}
	if len(rows) != 1 || rows[0].Name != "api" || rows[0].Status != "ok" {
		t.Fatalf("rows: %+v", rows)
	}
}

func TestUnauthorizedSuggestsSignIn(t *testing.T) {
	cleanEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"token expired"}`)
	}))
	defer srv.Close()

	code, _, stderr := runConsole(t, srv, "--token", "stale", "users", "list")
	if code != 1 {
		t.Fatalf("exit code: got %d want 1", code)
	}
	if !strings.Contains(stderr, "Token expired (401)") || !strings.Contains(stderr, "console auth signin") {
		t.Fatalf("stderr: %s", stderr)
	}
}

func TestSignOutWithoutBackend(t *testing.T) {
	cleanEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
	}))
	defer srv.Close()

	code, stdout, stderr := runConsole(t, srv, "--token", "abc", "auth", "signout")
	if code != 0 {
		t.Fatalf("exit code: got %d stderr=%s", code, stderr)
	}
	if !strings.Contains(stdout, "Signed out.") {
		t.Fatalf("stdout: %q", stdout)
	}
}

type slowListener struct {
	started  chan struct{}
	returned atomic.Bool
}

func (l *slowListener) Run(ctx context.Context, _ invalidation.Invalidator) {
	close(l.started)
	<-ctx.Done()
	time.Sleep(20 * time.Millisecond)
	l.returned.Store(true)
}

func TestWatchWaitsForListener(t *testing.T) {
	var stdout, stderr bytes.Buffer
	a := newApp(&stdout, &stderr)
	a.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	a.out = view.New(&stdout, view.FormatTable)
	a.queries = query.NewClient(query.DefaultOptions())
	l := &slowListener{started: make(chan struct{})}
	a.bus = l
	a.listers["services"] = func(context.Context, bool) error {
		<-l.started
		return nil
	}

	cmd := newWatchCmd(a)
	cmd.SetArgs([]string{"services", "--times", "1"})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("watch: %v", err)
	}
	if !l.returned.Load() {
		t.Fatal("watch returned while the listener was still running")
	}
}
