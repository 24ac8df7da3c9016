package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromURL(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.UserAgent()
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><article><p>Apply by March 1.</p></article></body></html>`))
	}))
	defer srv.Close()

	text, err := FromURL(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "Apply by March 1.", text)
	assert.Equal(t, DefaultUserAgent, gotAgent)
}

func TestFromURL_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	tests := []struct {
		name string
		url  string
		msg  string
	}{
		{"bad status", srv.URL, "HTTP status 410"},
		{"no scheme", "example.org/grant", "invalid URL"},
		{"unsupported scheme", "ftp://example.org/grant", "invalid URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromURL(context.Background(), tt.url, nil)
			var fetchErr *FetchError
			require.ErrorAs(t, err, &fetchErr)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestFromURL_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("late"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FromURL(ctx, srv.URL, &FetchOptions{Client: srv.Client(), UserAgent: "test"})
	assert.ErrorIs(t, err, context.Canceled)
}
