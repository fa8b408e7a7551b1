package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcet-assistant/backend/internal/model/profile"
)

func TestQuerySendsTextAndContext(t *testing.T) {
	var got Query
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true,"message":"Library closes at 8 PM."}`))
	}))
	defer srv.Close()

	uc := profile.UserContext{Branch: "CSE", Semester: 5, Batch: "2025"}
	resp, err := NewClient(srv.URL, time.Second).Query(context.Background(), Query{Text: "library hours", Context: uc})
	require.NoError(t, err)

	assert.Equal(t, Query{Text: "library hours", Context: uc}, got)
	assert.True(t, resp.OK)
	assert.Equal(t, "Library closes at 8 PM.", resp.Message)
}

func TestQueryFailuresAreUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusBadGateway) }},
		{"malformed", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`<html>`)) }},
		{"slow", func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(time.Second):
			case <-r.Context().Done():
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewClient(srv.URL, 50*time.Millisecond).Query(context.Background(), Query{Text: "x"})
			assert.ErrorIs(t, err, ErrUnavailable)
		})
	}
}

func TestQueryUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).Query(context.Background(), Query{Text: "x"})
	assert.ErrorIs(t, err, ErrUnavailable)
}
