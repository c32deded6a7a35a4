package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/jrsteele09/go-events-client/internal/errors"
)

// GenericErrorMessage is shown when the backend gave nothing usable.
const GenericErrorMessage = "An unexpected error occurred. Please try again."

// Error is a non-2xx backend response.
type Error struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
	Body       []byte
}

func newError(req *Request, resp *Response) *Error {
	return &Error{
		StatusCode: resp.StatusCode,
		Method:     req.Method,
		Path:       req.Path,
		Message:    ParseError(resp.Body),
		Body:       resp.Body,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// Unwrap maps the status onto the shared sentinel errors so callers can use errors.Is.
func (e *Error) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return errors.ErrUnauthorized
	case http.StatusForbidden:
		return errors.ErrForbidden
	case http.StatusNotFound:
		return errors.ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return errors.ErrValidation
	}
	return nil
}

// Transient reports whether the failure was on the server side.
func (e *Error) Transient() bool {
	return e.StatusCode >= 500
}

// ParseError turns a backend error body into one display string. It understands
//
//	{"errors": "message"}
//	{"errors": {"field": "message", ...}}   -> "field: message, ..." sorted by field
//	{"message": "message"}
//
// Any other body yields GenericErrorMessage. The raw bytes stay on Error.Body.
func ParseError(body []byte) string {
	if strings.TrimSpace(string(body)) == "" {
		return GenericErrorMessage
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return GenericErrorMessage
	}

	if msg := errorsField(envelope["errors"]); msg != "" {
		return msg
	}

	var message string
	if err := json.Unmarshal(envelope["message"], &message); err == nil && message != "" {
		return message
	}
	return GenericErrorMessage
}

func errorsField(field json.RawMessage) string {
	if len(field) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(field, &s); err == nil {
		return s
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(field, &m); err != nil || len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+rawText(m[k]))
	}
	return strings.Join(parts, ", ")
}

func rawText(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	return string(v)
}
