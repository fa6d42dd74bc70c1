package hooks

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/actions"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/query"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/schema"
)

func newHooks(t *testing.T, h http.HandlerFunc) *Hooks {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	api, err := actions.New(actions.Config{BaseURL: srv.URL, HTTPClient: srv.Client(), Token: "tok"})
	if err != nil {
		t.Fatalf("actions: %v", err)
	}
	qc := query.NewClient(query.Options{
		StaleTime:  time.Minute,
		Retry:      3,
		RetryDelay: time.Millisecond,
	})
	return New(api, qc)
}

func TestListKey(t *testing.T) {
	if got := ListKey("services", schema.Page{}).String(); got != "services" {
		t.Fatalf("unexpected default key %q", got)
	}
	got := ListKey("services", schema.Page{Limit: 20, Offset: 40})
	if !got.HasPrefix(query.K("services")) || len(got) != 2 {
		t.Fatalf("unexpected page key %v", got)
	}
}

func TestServicesListIsCached(t *testing.T) {
	var calls int32
	h := newHooks(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = io.WriteString(w, `[{"id":"s1","title":"Haircut","price":25,"durationMinutes":30,"images":[]}]`)
	})

	for i := 0; i < 3; i++ {
		res := h.Services().List(schema.Page{}).Fetch(context.Background())
		if res.Err != nil {
			t.Fatalf("fetch: %v", res.Err)
		}
		if len(res.Data) != 1 || res.Data[0].Title != "Haircut" {
			t.Fatalf("unexpected data %+v", res.Data)
		}
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected one request, got %d", n)
	}
}

func TestCreateStaffInvalidatesServices(t *testing.T) {
	var serviceCalls int32
	h := newHooks(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/services":
			atomic.AddInt32(&serviceCalls, 1)
			_, _ = io.WriteString(w, `[]`)
		case r.Method == http.MethodPost && r.URL.Path == "/staff":
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id":"st-1","firstName":"Ana","lastName":"Diaz","email":"ana@x.io"}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	if res := h.Services().List(schema.Page{}).Fetch(ctx); res.Err != nil {
		t.Fatalf("fetch: %v", res.Err)
	}
	staff, err := h.Staff().Create().Run(ctx, schema.CreateStaff{FirstName: "Ana", LastName: "Diaz", Email: "ana@x.io"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if staff.ID != "st-1" {
		t.Fatalf("unexpected staff %+v", staff)
	}
	if res := h.Services().List(schema.Page{}).Fetch(ctx); res.Err != nil {
		t.Fatalf("refetch: %v", res.Err)
	}
	if n := atomic.LoadInt32(&serviceCalls); n != 2 {
		t.Fatalf("expected services to be refetched, got %d calls", n)
	}
}

func TestValidationErrorIsNotRetried(t *testing.T) {
	var calls int32
	h := newHooks(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})
	res := h.Users().List(schema.Page{Limit: 500}).Fetch(context.Background())
	if _, ok := schema.AsValidation(res.Err); !ok {
		t.Fatalf("expected validation error, got %v", res.Err)
	}
	if res.Status != query.StatusError {
		t.Fatalf("unexpected status %q", res.Status)
	}
	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Fatalf("expected no request, got %d", n)
	}
}

func TestUpdateAppointmentPatch(t *testing.T) {
	h := newHooks(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/appointments/ap-1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"id":"ap-1","date":"2026-03-01T10:00:00Z","status":"pending","notes":"window seat"}`)
	})
	notes := "window seat"
	out, err := h.Appointments().Update().Run(context.Background(), Patch[schema.UpdateAppointment]{
		ID:     "ap-1",
		Fields: schema.UpdateAppointment{Notes: &notes},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if out.Notes != notes {
		t.Fatalf("unexpected appointment %+v", out)
	}
}

func newScopedHooks(t *testing.T, url, token string, shared query.Store) *Hooks {
	t.Helper()
	api, err := actions.New(actions.Config{BaseURL: url, Token: token})
	if err != nil {
		t.Fatalf("actions: %v", err)
	}
	qc := query.NewClient(query.Options{StaleTime: time.Minute, Retry: 0},
		query.WithStore(shared), query.WithScope(api.CacheScope))
	return New(api, qc)
}

func TestSharedCacheIsPartitionedByToken(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer admin" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(w, `{"statusCode":403,"message":"forbidden"}`)
			return
		}
		_, _ = io.WriteString(w, `[{"id":"u1","email":"secret@example.com","fullName":"Admin Only","roles":["admin"]}]`)
	}))
	defer srv.Close()

	shared := query.NewMemoryStore()
	admin := newScopedHooks(t, srv.URL, "admin", shared)
	guest := newScopedHooks(t, srv.URL, "guest", shared)

	if res := admin.Users().List(schema.Page{}).Fetch(context.Background()); res.Err != nil {
		t.Fatalf("admin fetch: %v", res.Err)
	}
	res := guest.Users().List(schema.Page{}).Fetch(context.Background())
	if res.Err == nil || len(res.Data) != 0 {
		t.Fatalf("guest must not see admin data: err=%v data=%+v", res.Err, res.Data)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Fatalf("expected guest to reach the backend, calls=%d", n)
	}
}

func TestInvalidationReachesEveryScope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	shared := query.NewMemoryStore()
	a := newScopedHooks(t, srv.URL, "a", shared)
	b := newScopedHooks(t, srv.URL, "b", shared)
	for _, h := range []*Hooks{a, b} {
		if res := h.Staff().List(schema.Page{}).Fetch(context.Background()); res.Err != nil {
			t.Fatalf("fetch: %v", res.Err)
		}
	}
	if shared.Len() != 2 {
		t.Fatalf("expected one entry per scope, got %d", shared.Len())
	}
	if err := a.Query().InvalidateLocal(context.Background(), query.K("staff")); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if shared.Len() != 0 {
		t.Fatalf("expected every scope dropped, %d left", shared.Len())
	}
}

func TestAuthStatusStaysInProcess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"u1","email":"owner@example.com","token":"fresh"}`)
	}))
	defer srv.Close()

	shared := query.NewMemoryStore()
	h := newScopedHooks(t, srv.URL, "tok", shared)
	res := h.CheckStatus().Fetch(context.Background())
	if res.Err != nil || res.Data.Token != "fresh" {
		t.Fatalf("check status: %+v", res)
	}
	if shared.Len() != 0 {
		t.Fatalf("token reply written to the shared store (%d entries)", shared.Len())
	}
}
