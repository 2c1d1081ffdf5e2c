package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"rankedoverlay/internal/logging"
)

func TestFromContextFallback(t *testing.T) {
	t.Parallel()

	logger := logging.FromContext(context.Background())
	require.NotNil(t, logger)
}

func TestAddToContextRoundtrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := logging.AddToContext(context.Background(), logger)
	logging.FromContext(ctx).Info("hello", "widgetId", "abc")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "hello", record["msg"])
	require.Equal(t, "abc", record["widgetId"])
}

func TestAddMetaToContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := logging.AddToContext(context.Background(), logger)
	ctx = logging.AddMetaToContext(ctx, slog.String("player", "7rowl"))
	logging.FromContext(ctx).Info("poll completed")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "poll completed", record["msg"])
	require.Equal(t, "7rowl", record["player"])
}
