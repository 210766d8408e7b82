package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogCapture(t *testing.T) {
	logger, capture := NewTestLogger(t)

	child := logger.With(slog.String("component", "hub"))
	child.Info("client connected", slog.String("client_id", "c1"))
	logger.Error("send failed", slog.Int("code", 500))

	records := capture.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "hub", records[0].Attrs["component"])
	assert.Equal(t, "c1", records[0].Attrs["client_id"])
	assert.NotContains(t, records[1].Attrs, "component")

	assert.True(t, capture.HasMessage("connected"))
	assert.True(t, capture.HasAttr("code", int64(500)))
	assert.False(t, capture.HasAttr("component", "table"))
	assert.Len(t, capture.RecordsAtLevel(slog.LevelError), 1)

	AssertLogContains(t, capture, slog.LevelInfo, "client connected")
}
