package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAddr(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", "127.0.0.1:8080"},
		{"0.0.0.0:9090", "127.0.0.1:9090"},
		{":8081", "127.0.0.1:8081"},
		{"10.0.0.5:8080", "10.0.0.5:8080"},
		{"not an address", "127.0.0.1:8080"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeAddr(tt.raw), tt.raw)
	}
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"healthy", http.StatusOK, `{"status":"ok","content_loaded_at":"2026-05-01T08:00:00Z"}`, ""},
		{"no content", http.StatusOK, `{"status":"ok"}`, "content not loaded"},
		{"bad status field", http.StatusOK, `{"status":"degraded","content_loaded_at":"x"}`, `status "degraded"`},
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, "status 500"},
		{"not json", http.StatusOK, `<html>`, "decode health"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)

			err := probe(context.Background(), srv.Client(), srv.URL+"/api/v1/health")
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
