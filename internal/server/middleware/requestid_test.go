package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, header string) (string, string) {
	t.Helper()
	var seen string
	handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	if header != "" {
		req.Header.Set(HeaderRequestID, header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return seen, rec.Header().Get(HeaderRequestID)
}

func TestRequestID_Generated(t *testing.T) {
	seen, echoed := serve(t, "")

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, echoed)
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
}

func TestRequestID_Propagated(t *testing.T) {
	seen, echoed := serve(t, "req-abc-123")

	assert.Equal(t, "req-abc-123", seen)
	assert.Equal(t, "req-abc-123", echoed)
}

func TestRequestID_OversizedReplaced(t *testing.T) {
	long := strings.Repeat("x", maxRequestIDLength+1)
	seen, _ := serve(t, long)

	assert.NotEqual(t, long, seen)
	assert.NotEmpty(t, seen)
}

func TestGetRequestID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, GetRequestID(req.Context()))
}
