package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		method         string
		ping           Pinger
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "no storage check",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectedSubstr: `"status":"ok"`,
		},
		{
			name:           "storage reachable",
			method:         http.MethodGet,
			ping:           func(context.Context) error { return nil },
			expectedStatus: http.StatusOK,
			expectedSubstr: `"status":"ok"`,
		},
		{
			name:           "storage down",
			method:         http.MethodGet,
			ping:           func(context.Context) error { return errors.New("connection refused") },
			expectedStatus: http.StatusServiceUnavailable,
			expectedSubstr: codeUnavailable,
		},
		{
			name:           "wrong method",
			method:         http.MethodPost,
			expectedStatus: http.StatusMethodNotAllowed,
			expectedSubstr: codeMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tt.method, "/health", nil)
			rec := httptest.NewRecorder()

			HandleHealth(tt.ping, slog.New(slog.DiscardHandler)).ServeHTTP(rec, req)

			require.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedSubstr)
		})
	}
}
