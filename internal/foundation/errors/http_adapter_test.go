package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPErrorAdapter_StatusCodeFor(t *testing.T) {
	adapter := NewHTTPErrorAdapter(nil)

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, http.StatusOK},
		{"validation", ValidationError("missing code").Build(), http.StatusBadRequest},
		{"auth", NewError(CategoryAuth, "denied").Build(), http.StatusUnauthorized},
		{"not found", NewError(CategoryNotFound, "gone").Build(), http.StatusNotFound},
		{"network", NetworkError("provider down").Build(), http.StatusBadGateway},
		{"content", ContentError("empty").Build(), http.StatusUnprocessableEntity},
		{"internal", InternalError("bug").Build(), http.StatusInternalServerError},
		{"unclassified", stderrors.New("unknown"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.StatusCodeFor(tt.err))
		})
	}
}

func TestHTTPErrorAdapter_WriteErrorResponse(t *testing.T) {
	adapter := NewHTTPErrorAdapter(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth", nil)

	err := NetworkError("token exchange failed").WithContext("provider", "github").Build()
	adapter.WriteErrorResponse(rec, req, err)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	var payload HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "token exchange failed", payload.Error)
	assert.Equal(t, "network", payload.Code)
	assert.True(t, payload.Retryable)
	assert.Equal(t, "github", payload.Details["provider"])
}

func TestHTTPErrorAdapter_HidesUnclassifiedMessages(t *testing.T) {
	adapter := NewHTTPErrorAdapter(nil)
	resp := adapter.FormatErrorResponse(stderrors.New("client_secret=abc leaked"))
	assert.Equal(t, "internal error", resp.Error)
}
