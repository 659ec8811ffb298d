// Package testutil provides testing utilities for the campaign export client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockAPI is a configurable mock campaign API server for testing.
type MockAPI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)
	pages    map[int]string

	// Tracking
	RequestCount      int
	ConditionalCount  int
	LastRequestHeader http.Header
	Offsets           []int
}

// NewMockAPI creates a new mock campaign API server.
func NewMockAPI() *MockAPI {
	mock := &MockAPI{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
		pages:    make(map[int]string),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()
		if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil {
			mock.Offsets = append(mock.Offsets, offset)
		}

		// Track conditional requests
		if r.Header.Get("If-None-Match") != "" || r.Header.Get("If-Modified-Since") != "" {
			mock.ConditionalCount++
		}
		mock.mu.Unlock()

		// Check for custom handler
		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockAPI) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.ConditionalCount = 0
	m.LastRequestHeader = nil
	m.Offsets = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockAPI) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockAPI) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetPage registers the response body served for a given pagination offset
// on the campaigns endpoint. Offsets with no registered body receive an
// empty page, which terminates a pagination run.
func (m *MockAPI) SetPage(offset int, body string) {
	m.mu.Lock()
	m.pages[offset] = body
	m.mu.Unlock()

	m.SetHandler("/api/3/campaigns", func(w http.ResponseWriter, r *http.Request) {
		off, _ := strconv.Atoi(r.URL.Query().Get("offset"))

		m.mu.RLock()
		page, ok := m.pages[off]
		m.mu.RUnlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if ok {
			w.Write([]byte(page))
			return
		}
		w.Write([]byte(EmptyPageBody()))
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetConditionalCount returns the number of conditional requests.
func (m *MockAPI) GetConditionalCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ConditionalCount
}

// GetOffsets returns the pagination offsets seen, in request order.
func (m *MockAPI) GetOffsets() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]int, len(m.Offsets))
	copy(out, m.Offsets)
	return out
}

// defaultHandler serves an empty campaign page.
func (m *MockAPI) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	if r.Header.Get("If-None-Match") != "" {
		w.Header().Set("Expires", time.Now().Add(5*time.Minute).Format(http.TimeFormat))
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", `"default-etag"`)
	w.Header().Set("Expires", time.Now().Add(5*time.Minute).Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(EmptyPageBody()))
}

// EmptyPageBody returns a campaign page with no records.
func EmptyPageBody() string {
	return `{"campaigns": [], "campaignMessages": [], "messages": []}`
}

// PageBody builds a well-formed campaign page body from record triples.
// Each campaign n gets a link row and a message row with matching ids.
func PageBody(campaignIDs ...string) string {
	campaigns := make([]map[string]any, 0, len(campaignIDs))
	links := make([]map[string]any, 0, len(campaignIDs))
	messages := make([]map[string]any, 0, len(campaignIDs))
	for i, id := range campaignIDs {
		msgID := fmt.Sprintf("m%s", id)
		campaigns = append(campaigns, map[string]any{
			"id":     id,
			"name":   fmt.Sprintf("Campaign %s", id),
			"status": "5",
			"type":   "single",
			"sendid": strconv.Itoa(i + 1),
		})
		links = append(links, map[string]any{
			"id":         fmt.Sprintf("l%s", id),
			"campaignid": id,
			"messageid":  msgID,
		})
		messages = append(messages, map[string]any{
			"id":      msgID,
			"subject": fmt.Sprintf("Subject %s", id),
		})
	}
	body, _ := json.Marshal(map[string]any{
		"campaigns":        campaigns,
		"campaignMessages": links,
		"messages":         messages,
	})
	return string(body)
}

// NewHealthyResponse creates a standard 200 OK response with cache headers.
func NewHealthyResponse(data string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       data,
		Headers: map[string]string{
			"ETag":         `"test-etag-123"`,
			"Expires":      time.Now().Add(5 * time.Minute).Format(http.TimeFormat),
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewNotModifiedResponse creates a 304 Not Modified response.
func NewNotModifiedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotModified,
		Headers: map[string]string{
			"Expires": time.Now().Add(5 * time.Minute).Format(http.TimeFormat),
		},
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"message": "Rate limit exceeded"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"message": "Internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewConditionalHandler creates a handler that responds with 304 for matching
// conditional requests.
func NewConditionalHandler(etag string, data string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if r.Header.Get("If-None-Match") == etag {
			w.Header().Set("Expires", time.Now().Add(5*time.Minute).Format(http.TimeFormat))
			w.WriteHeader(http.StatusNotModified)
			return
		}

		w.Header().Set("ETag", etag)
		w.Header().Set("Expires", time.Now().Add(5*time.Minute).Format(http.TimeFormat))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(data))
	}
}
