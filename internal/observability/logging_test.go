package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithPage(ctx, "/index.html")
	ctx = WithStage(ctx, "loading-contact")

	lc := GetContext(ctx)
	assert.Equal(t, "req-1", lc.RequestID)
	assert.Equal(t, "/index.html", lc.Page)
	assert.Equal(t, "loading-contact", lc.Stage)

	assert.Equal(t, LogContext{}, GetContext(context.Background()))
}

func TestContextHandler_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil))).With("component", "test")

	ctx := WithStage(WithRequestID(context.Background(), "abc"), "loading-page-specific")
	logger.InfoContext(ctx, "hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "abc", rec["request_id"])
	assert.Equal(t, "loading-page-specific", rec["stage"])
	assert.Equal(t, "test", rec["component"])
	assert.NotContains(t, rec, "page")
}

func TestContextHandler_PlainContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewContextHandler(slog.NewTextHandler(&buf, nil)))
	logger.Info("plain")
	assert.NotContains(t, buf.String(), "request_id")
}
