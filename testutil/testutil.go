// Package testutil provides helpers for testing HTTP handlers that serve
// API documents. It does not import springdox, so springdox's own tests can
// use it.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"gopkg.in/yaml.v3"
)

// RequestBuilder constructs test requests with a fluent API.
type RequestBuilder struct {
	method  string
	path    string
	query   url.Values
	headers http.Header
}

// NewRequest returns a builder for GET /.
func NewRequest() *RequestBuilder {
	return &RequestBuilder{
		method:  http.MethodGet,
		path:    "/",
		query:   url.Values{},
		headers: http.Header{},
	}
}

// GET sets the method to GET.
func (b *RequestBuilder) GET(path string) *RequestBuilder {
	b.method, b.path = http.MethodGet, path
	return b
}

// HEAD sets the method to HEAD.
func (b *RequestBuilder) HEAD(path string) *RequestBuilder {
	b.method, b.path = http.MethodHead, path
	return b
}

// OPTIONS sets the method to OPTIONS.
func (b *RequestBuilder) OPTIONS(path string) *RequestBuilder {
	b.method, b.path = http.MethodOptions, path
	return b
}

// Method sets an arbitrary method.
func (b *RequestBuilder) Method(method, path string) *RequestBuilder {
	b.method, b.path = method, path
	return b
}

// WithQuery adds a query parameter. Empty values are skipped.
func (b *RequestBuilder) WithQuery(key, value string) *RequestBuilder {
	if value != "" {
		b.query.Add(key, value)
	}
	return b
}

// WithHeader sets a request header.
func (b *RequestBuilder) WithHeader(key, value string) *RequestBuilder {
	b.headers.Set(key, value)
	return b
}

// WithOrigin sets the Origin header, as a browser would on a cross-origin fetch.
func (b *RequestBuilder) WithOrigin(origin string) *RequestBuilder {
	return b.WithHeader("Origin", origin)
}

// Build creates the request and a recorder for its response.
func (b *RequestBuilder) Build() (*http.Request, *httptest.ResponseRecorder) {
	target := b.path
	if len(b.query) > 0 {
		target += "?" + b.query.Encode()
	}
	req := httptest.NewRequest(b.method, target, nil)
	for k, v := range b.headers {
		req.Header[k] = v
	}
	return req, httptest.NewRecorder()
}

// Do serves the built request with h and returns the recorded response.
func (b *RequestBuilder) Do(h http.Handler) *httptest.ResponseRecorder {
	req, w := b.Build()
	h.ServeHTTP(w, req)
	return w
}

// AssertStatus checks the response status code.
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int) {
	t.Helper()
	if w.Code != expectedStatus {
		t.Errorf("expected status %d, got %d\nBody: %s", expectedStatus, w.Code, w.Body.String())
	}
}

// AssertHeader checks that a response header has the expected value.
func AssertHeader(t *testing.T, w *httptest.ResponseRecorder, key, expectedValue string) {
	t.Helper()
	if actual := w.Header().Get(key); actual != expectedValue {
		t.Errorf("expected header %s=%q, got %q", key, expectedValue, actual)
	}
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// AssertJSONError checks that the response carries an error envelope with
// the expected code, and returns it.
func AssertJSONError(t *testing.T, w *httptest.ResponseRecorder, expectedCode string) *ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	DecodeJSON(t, w, &resp)
	if resp.Code != expectedCode {
		t.Errorf("expected error code %s, got %s (message: %s)", expectedCode, resp.Code, resp.Message)
	}
	return &resp
}

// DecodeJSON decodes the response body into v.
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response: %v\nBody: %s", err, w.Body.String())
	}
}

// DecodeYAML decodes the response body into v.
func DecodeYAML(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := yaml.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response: %v\nBody: %s", err, w.Body.String())
	}
}
