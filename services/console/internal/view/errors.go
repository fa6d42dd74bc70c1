package view

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/apierror"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/schema"
)

type errorBody struct {
	Kind      string            `json:"kind"`
	Message   string            `json:"message"`
	Status    int               `json:"status,omitempty"`
	Details   []string          `json:"details,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"requestId,omitempty"`
}

// Error prints err in the shape its category calls for: field violations
// next to their field names, HTTP failures with status and request id.
func (r *Renderer) Error(err error) error {
	if err == nil {
		return nil
	}
	body := describe(err)
	if r.format == FormatJSON {
		return r.json(map[string]errorBody{"error": body})
	}

	var b strings.Builder
	b.WriteString(errorStyle.Render(CapitalizeFirstWord(body.Message)))
	b.WriteString("\n")
	if len(body.Fields) > 0 {
		if ve, ok := schema.AsValidation(err); ok {
			for _, f := range ve.Fields {
				fmt.Fprintf(&b, "  %s: %s\n", keyStyle.Render(f.Field), f.Message)
			}
		}
	}
	for _, d := range body.Details {
		fmt.Fprintf(&b, "  - %s\n", CapitalizeFirstWord(d))
	}
	if body.RequestID != "" {
		b.WriteString(mutedStyle.Render("request id: "+body.RequestID) + "\n")
	}
	_, werr := fmt.Fprint(r.w, b.String())
	return werr
}

func describe(err error) errorBody {
	if ve, ok := schema.AsValidation(err); ok {
		return errorBody{Kind: "validation", Message: "invalid input", Fields: ve.Map()}
	}
	if apiErr, ok := apierror.As(err); ok {
		if apiErr.Network() {
			return errorBody{Kind: "network", Message: "cannot reach the backend: " + rootCause(apiErr)}
		}
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(apiErr.Status)
		}
		return errorBody{
			Kind:      "http",
			Message:   fmt.Sprintf("%s (%d)", msg, apiErr.Status),
			Status:    apiErr.Status,
			Details:   apiErr.Details,
			RequestID: apiErr.RequestID,
		}
	}
	return errorBody{Kind: "error", Message: err.Error()}
}

func rootCause(e *apierror.Error) string {
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	return "unknown error"
}
