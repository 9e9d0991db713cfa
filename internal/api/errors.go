package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrUnauthorized is returned for any 401, after the unauthorized hook has
// run. Callers treat it as "logged out", never as a retryable failure.
var ErrUnauthorized = errors.New("api: unauthorized")

// Error is a non-2xx backend response. Fields carries Django-style
// field-level validation messages when the body had that shape.
type Error struct {
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Fields) > 0 {
		return e.fieldSummary()
	}
	return http.StatusText(e.Status)
}

// FieldErrors returns all messages for a field, nil when the field is clean.
func (e *Error) FieldErrors(field string) []string {
	return e.Fields[field]
}

// IsValidation reports whether this is a 4xx with field-level messages.
func (e *Error) IsValidation() bool {
	return e.Status >= 400 && e.Status < 500 && len(e.Fields) > 0
}

func (e *Error) fieldSummary() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var parts []string
	for _, f := range fields {
		parts = append(parts, strings.Join(e.Fields[f], " "))
	}
	return strings.Join(parts, " ")
}

// parseError turns an error response body into an *Error. Bodies come in
// three shapes: {"error": "..."} / {"detail": "..."} / {"message": "..."},
// a Django field-error map {"username": ["..."]}, or something unparseable.
func parseError(status int, body []byte) error {
	apiErr := &Error{Status: status}
	if len(body) == 0 {
		return apiErr
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		return apiErr
	}

	for _, key := range []string{"error", "detail", "message"} {
		if msg, ok := raw[key]; ok {
			var s string
			if json.Unmarshal(msg, &s) == nil && s != "" {
				apiErr.Message = s
				return apiErr
			}
		}
	}

	fields := make(map[string][]string)
	for key, val := range raw {
		var msgs []string
		if json.Unmarshal(val, &msgs) == nil && len(msgs) > 0 {
			fields[key] = msgs
			continue
		}
		var msg string
		if json.Unmarshal(val, &msg) == nil && msg != "" {
			fields[key] = []string{msg}
		}
	}
	if len(fields) > 0 {
		apiErr.Fields = fields
	} else {
		apiErr.Message = fmt.Sprintf("request failed with status %d", status)
	}
	return apiErr
}
