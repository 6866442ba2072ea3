// Package testutil provides testing utilities for the character proxy.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
)

// MockUpstream is a configurable mock character API server for testing.
type MockUpstream struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// RequestCount tracks the total number of requests received.
	RequestCount int
}

// NewMockUpstream creates a new mock upstream server.
func NewMockUpstream() *MockUpstream {
	mock := &MockUpstream{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.mu.Unlock()

		page := r.URL.Query().Get("page")
		if page == "" {
			page = "1"
		}

		mock.mu.RLock()
		handler, exists := mock.handlers[page]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		// Default: empty page
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"results": []}`))
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockUpstream) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockUpstream) Close() {
	m.server.Close()
}

// Reset clears tracking counters and configured pages.
func (m *MockUpstream) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.handlers = make(map[string]func(w http.ResponseWriter, r *http.Request))
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockUpstream) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// SetPageHandler sets a custom handler for a page number.
func (m *MockUpstream) SetPageHandler(page int, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[fmt.Sprintf("%d", page)] = handler
}

// SetPageJSON configures a 200 response with the given JSON body for a page.
func (m *MockUpstream) SetPageJSON(page int, body string) {
	m.SetPageHandler(page, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	})
}

// SetPageStatus configures a fixed status code response for a page.
func (m *MockUpstream) SetPageStatus(page int, status int) {
	m.SetPageHandler(page, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(`{"error": "upstream error"}`))
	})
}

// SetPageFailThenSucceed configures a page to return failStatus for the
// first n requests, then the given JSON body with 200.
func (m *MockUpstream) SetPageFailThenSucceed(page, n, failStatus int, body string) {
	var mu sync.Mutex
	failures := 0
	m.SetPageHandler(page, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		fail := failures < n
		if fail {
			failures++
		}
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if fail {
			w.WriteHeader(failStatus)
			w.Write([]byte(`{"error": "try again"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	})
}

// SampleCharactersPage is a small upstream payload with a mix of eligible
// and ineligible characters.
const SampleCharactersPage = `{
	"results": [
		{"id": 2, "name": "Morty Smith", "status": "Alive", "species": "Human", "gender": "Male", "origin": {"name": "Earth (C-137)", "url": ""}, "location": {"name": "Citadel of Ricks", "url": ""}},
		{"id": 1, "name": "Rick Sanchez", "status": "Alive", "species": "Human", "gender": "Male", "origin": {"name": "Earth (C-137)", "url": ""}, "location": {"name": "Citadel of Ricks", "url": ""}},
		{"id": 47, "name": "Birdperson", "status": "Alive", "species": "Alien", "gender": "Male", "origin": {"name": "Bird World", "url": ""}, "location": {"name": "Bird World", "url": ""}},
		{"id": 8, "name": "Adjudicator Rick", "status": "Dead", "species": "Human", "gender": "Male", "origin": {"name": "Earth (Unknown dimension)", "url": ""}, "location": {"name": "Citadel of Ricks", "url": ""}}
	]
}`
