package apierror

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func response(status int, body string) *http.Response {
	req := httptest.NewRequest(http.MethodPost, "http://api.local/api/auth/signin", nil)
	req.Header.Set("X-Request-Id", "req-1")
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}
}

func TestFromResponseStringMessage(t *testing.T) {
	e := FromResponse("auth.signin", response(401, `{"statusCode":401,"message":"Credentials are not valid","error":"Unauthorized"}`))
	if e.Status != 401 || e.Message != "Credentials are not valid" {
		t.Fatalf("unexpected error: %+v", e)
	}
	if e.Path != "/api/auth/signin" || e.Method != http.MethodPost || e.RequestID != "req-1" {
		t.Fatalf("request info missing: %+v", e)
	}
	if !IsUnauthorized(e) || e.Retryable() {
		t.Fatal("expected non-retryable 401")
	}
}

func TestFromResponseMessageList(t *testing.T) {
	e := FromResponse("services.create", response(400, `{"statusCode":400,"message":["title should not be empty","price must be a positive number"],"error":"Bad Request"}`))
	if e.Message != "Bad Request" || len(e.Details) != 2 || e.Details[1] != "price must be a positive number" {
		t.Fatalf("unexpected error: %+v", e)
	}
	if !strings.Contains(e.Error(), "title should not be empty") {
		t.Fatalf("details missing from message: %s", e.Error())
	}
}

func TestFromResponsePlainText(t *testing.T) {
	e := FromResponse("services.list", response(502, "upstream unavailable"))
	if e.Message != "upstream unavailable" || !e.Retryable() {
		t.Fatalf("unexpected error: %+v", e)
	}

	empty := FromResponse("services.list", response(404, ""))
	if empty.Message != "Not Found" || !IsNotFound(empty) {
		t.Fatalf("expected status text fallback: %+v", empty)
	}
}

func TestNetworkError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://api.local/api/services", nil)
	e := Network("services.list", req, errors.New("dial tcp: connection refused"))
	if !e.Network() || !IsNetwork(e) || !e.Retryable() {
		t.Fatalf("expected retryable network error: %+v", e)
	}
	if !strings.Contains(e.Error(), "network error") {
		t.Fatalf("unexpected message: %s", e.Error())
	}

	cancelled := Network("services.list", req, fmt.Errorf("do: %w", context.Canceled))
	if cancelled.Retryable() {
		t.Fatal("cancellation must not be retried")
	}
}

func TestAsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("load page: %w", &Error{Op: "staff.get", Status: http.StatusConflict})
	if !IsConflict(wrapped) {
		t.Fatal("expected conflict through wrapping")
	}
	if Retryable(errors.New("plain")) {
		t.Fatal("plain errors are not retryable")
	}
}
