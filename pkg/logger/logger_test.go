package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	return record
}

func Test_ContextHandler_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil)))
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")

	log.InfoContext(ctx, "hello")

	record := decode(t, &buf)
	assert.Equal(t, "req-42", record["request_id"])
	assert.NotContains(t, record, "trace_id")
}

func Test_ContextHandler_WithoutContextValues(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil)))

	log.Info("hello")

	record := decode(t, &buf)
	assert.NotContains(t, record, "request_id")
}

func Test_ContextHandler_KeepsWrapperOnDerivedLoggers(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil))).With("component", "store").WithGroup("g")
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-7")

	log.InfoContext(ctx, "hello", "k", "v")

	record := decode(t, &buf)
	assert.Equal(t, "store", record["component"])
	group, ok := record["g"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "req-7", group["request_id"])
}
