// Package apierror normalises failed backend calls. Every HTTP or network
// failure surfaced by the action client is an *Error; form problems are
// reported separately by the schema package.
package apierror

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

const maxErrorBody = 64 << 10

type Error struct {
	Op        string
	Method    string
	Path      string
	Status    int // 0 when the request never got an answer
	Message   string
	Details   []string
	RequestID string
	Err       error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
	}
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if len(e.Details) > 0 {
		msg += " (" + strings.Join(e.Details, "; ") + ")"
	}
	return fmt.Sprintf("%s: %d %s", e.Op, e.Status, msg)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Code() int { return e.Status }

func (e *Error) Network() bool { return e.Status == 0 }

// Retryable reports whether repeating the same call could succeed: transport
// failures other than cancellation, 408, 429 and 5xx.
func (e *Error) Retryable() bool {
	if e.Status == 0 {
		return !errors.Is(e.Err, context.Canceled) && !errors.Is(e.Err, context.DeadlineExceeded)
	}
	return e.Status == http.StatusRequestTimeout ||
		e.Status == http.StatusTooManyRequests ||
		e.Status >= http.StatusInternalServerError
}

func Network(op string, req *http.Request, err error) *Error {
	e := &Error{Op: op, Err: err}
	if req != nil {
		e.Method = req.Method
		e.Path = req.URL.Path
	}
	return e
}

// FromResponse builds an *Error from a non-2xx response and drains its body.
// Bodies of the form {"statusCode":400,"message":"..."|["..."],"error":"Bad Request"}
// are unpacked; anything else is kept as plain text.
func FromResponse(op string, resp *http.Response) *Error {
	e := &Error{
		Op:        op,
		Status:    resp.StatusCode,
		RequestID: resp.Header.Get("X-Request-Id"),
	}
	if resp.Request != nil {
		e.Method = resp.Request.Method
		e.Path = resp.Request.URL.Path
		if e.RequestID == "" {
			e.RequestID = resp.Request.Header.Get("X-Request-Id")
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		e.Err = err
	}
	e.Message, e.Details = parseBody(body)
	if e.Message == "" {
		e.Message = http.StatusText(resp.StatusCode)
	}
	return e
}

// Decode reports a 2xx answer whose body did not have the expected shape.
func Decode(op string, resp *http.Response, err error) *Error {
	e := &Error{
		Op:      op,
		Status:  resp.StatusCode,
		Message: "unexpected response body",
		Err:     err,
	}
	if resp.Request != nil {
		e.Method = resp.Request.Method
		e.Path = resp.Request.URL.Path
	}
	return e
}

func parseBody(body []byte) (string, []string) {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return "", nil
	}
	if !gjson.ValidBytes(body) {
		return text, nil
	}

	res := gjson.ParseBytes(body)
	msg := res.Get("message")
	switch {
	case msg.IsArray():
		var details []string
		for _, item := range msg.Array() {
			if s := strings.TrimSpace(item.String()); s != "" {
				details = append(details, s)
			}
		}
		return res.Get("error").String(), details
	case msg.Exists():
		return msg.String(), nil
	case res.Get("error").Exists():
		return res.Get("error").String(), nil
	default:
		return "", nil
	}
}

func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func IsStatus(err error, status int) bool {
	e, ok := As(err)
	return ok && e.Status == status
}

func IsNotFound(err error) bool     { return IsStatus(err, http.StatusNotFound) }
func IsUnauthorized(err error) bool { return IsStatus(err, http.StatusUnauthorized) }
func IsConflict(err error) bool     { return IsStatus(err, http.StatusConflict) }

func IsNetwork(err error) bool {
	e, ok := As(err)
	return ok && e.Network()
}

// Retryable is false for anything that is not an *Error.
func Retryable(err error) bool {
	e, ok := As(err)
	return ok && e.Retryable()
}
