package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Request is one logical backend call. Retried marks a replay issued after a
// token refresh; a replay that is rejected again is never refreshed a second time.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Body        []byte
	ContentType string
	Header      http.Header

	// Public requests carry no bearer token and are never refreshed.
	Public  bool
	Retried bool
}

// NewRequest creates a request for path relative to the client's base URL.
func NewRequest(method, path string) *Request {
	return &Request{
		Method: method,
		Path:   path,
		Header: make(http.Header),
	}
}

// WithJSON marshals v as the request body.
func (r *Request) WithJSON(v any) (*Request, error) {
	if v == nil {
		return r, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("Request.WithJSON: %w", err)
	}
	r.Body = b
	r.ContentType = "application/json"
	return r, nil
}

// WithQuery merges q into the request's query string.
func (r *Request) WithQuery(q url.Values) *Request {
	if len(q) == 0 {
		return r
	}
	if r.Query == nil {
		r.Query = make(url.Values)
	}
	for k, vs := range q {
		for _, v := range vs {
			r.Query.Add(k, v)
		}
	}
	return r
}

// replay returns a copy of r flagged as retried.
func (r *Request) replay() *Request {
	c := *r
	c.Header = r.Header.Clone()
	c.Retried = true
	return &c
}

func (r *Request) url(base string) string {
	u := base + "/" + strings.TrimPrefix(r.Path, "/")
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}
	return u
}

// Response is a fully read backend response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v. Empty bodies decode to nothing.
func (r *Response) Decode(v any) error {
	if v == nil || len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("Response.Decode: %w", err)
	}
	return nil
}
