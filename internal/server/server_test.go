package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonathan/grant-assist/internal/config"
	"github.com/jonathan/grant-assist/internal/server/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const smallTemplate = `{
	"id": "tmpl-small",
	"name": "Community Arts Microgrant",
	"sections": [
		{"id": "a", "title": "Field A", "kind": "text", "required": true, "order": 1},
		{"id": "b", "title": "Field B", "kind": "narrative", "required": true, "order": 2}
	],
	"required_fields": ["a", "b"],
	"optional_fields": [],
	"validation_rules": []
}`

func newTestServer(t *testing.T, cfg config.ServerConfig, opts ...Option) *Server {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	s := New(cfg, opts...)
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, config.ServerConfig{})

	rec := doRequest(t, s.Handler(), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	decodeBody(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["store"])
	assert.Equal(t, false, body["autocomplete"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, config.ServerConfig{})

	doRequest(t, s.Handler(), http.MethodPost, "/v1/score-content", map[string]string{"text": "Hello world."})
	rec := doRequest(t, s.Handler(), http.MethodGet, "/metrics", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `grant_engine_operations_total{operation="score_content"}`)
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, config.ServerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.HeaderRequestID, "trace-1")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "trace-1", rec.Header().Get(middleware.HeaderRequestID))
}

func TestCORS(t *testing.T) {
	t.Run("any origin by default", func(t *testing.T) {
		s := newTestServer(t, config.ServerConfig{})
		rec := doRequest(t, s.Handler(), http.MethodGet, "/health", nil)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("allow list", func(t *testing.T) {
		s := newTestServer(t, config.ServerConfig{AllowedOrigins: []string{"https://apply.example.org"}})

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://apply.example.org")
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		assert.Equal(t, "https://apply.example.org", rec.Header().Get("Access-Control-Allow-Origin"))

		req = httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rec = httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		s := newTestServer(t, config.ServerConfig{})
		rec := doRequest(t, s.Handler(), http.MethodOptions, "/v1/validate", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	})
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, config.ServerConfig{RateLimit: 1, RateBurst: 2})
	body := map[string]string{"text": "Hello."}

	for i := 0; i < 2; i++ {
		rec := doRequest(t, s.Handler(), http.MethodPost, "/v1/score-content", body)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := doRequest(t, s.Handler(), http.MethodPost, "/v1/score-content", body)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	var resp map[string]any
	decodeBody(t, rec, &resp)
	assert.Equal(t, "rate_limit_exceeded", resp["error"])

	// probes are exempt
	assert.Equal(t, http.StatusOK, doRequest(t, s.Handler(), http.MethodGet, "/health", nil).Code)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, config.ServerConfig{})

	assert.Equal(t, http.StatusNotFound, doRequest(t, s.Handler(), http.MethodGet, "/v1/nothing", nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, doRequest(t, s.Handler(), http.MethodGet, "/v1/validate", nil).Code)
}
