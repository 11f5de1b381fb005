// Package testutil provides fixtures and fakes shared by the catalog tests.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockResponse defines the behavior of one mock upstream path.
type MockResponse struct {
	StatusCode int
	Body       string
	Delay      time.Duration
}

// MockUpstream is a configurable stand-in for the upstream webhook.
type MockUpstream struct {
	server *httptest.Server

	mu        sync.RWMutex
	responses map[string]MockResponse
	requests  map[string]int
}

// NewMockUpstream starts a server that answers 404 until paths are configured.
func NewMockUpstream() *MockUpstream {
	m := &MockUpstream{
		responses: make(map[string]MockResponse),
		requests:  make(map[string]int),
	}

	m.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.requests[r.URL.Path]++
		resp, ok := m.responses[r.URL.Path]
		m.mu.Unlock()

		if !ok {
			http.NotFound(w, r)
			return
		}
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	}))

	return m
}

// URL returns the server base URL.
func (m *MockUpstream) URL() string {
	return m.server.URL
}

// Close shuts down the server.
func (m *MockUpstream) Close() {
	m.server.Close()
}

// SetResponse configures the response for a path.
func (m *MockUpstream) SetResponse(path string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[path] = resp
}

// RequestCount returns how many requests hit path.
func (m *MockUpstream) RequestCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requests[path]
}

// NewRowsResponse is a 200 response carrying the given JSON rows.
func NewRowsResponse(body string) MockResponse {
	return MockResponse{StatusCode: http.StatusOK, Body: body}
}

// NewServerErrorResponse is a 500 response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
	}
}
