package logging_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrarafathossain10-collab/moneystepearn10/internal/logging"
)

func TestTeeHandler_FileGetsOnlyWarningsAndErrors(t *testing.T) {
	var stdout, file bytes.Buffer
	logger := slog.New(logging.NewTeeHandler(
		slog.NewTextHandler(&stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&file, &slog.HandlerOptions{Level: slog.LevelWarn}),
	))

	logger.Info("bot started", "addr", ":8080")
	logger.Warn("callback ack failed")
	logger.Error("ledger write failed")

	assert.Contains(t, stdout.String(), "bot started")
	assert.Contains(t, stdout.String(), "ledger write failed")

	assert.NotContains(t, file.String(), "bot started")
	assert.Contains(t, file.String(), "callback ack failed")
	assert.Contains(t, file.String(), "ledger write failed")
}

func TestTeeHandler_WithAttrsReachesBothHandlers(t *testing.T) {
	var stdout, file bytes.Buffer
	logger := slog.New(logging.NewTeeHandler(
		slog.NewTextHandler(&stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&file, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)).With("chat_id", 42)

	logger.Error("send failed")

	assert.Contains(t, stdout.String(), "chat_id=42")
	assert.Contains(t, file.String(), "chat_id=42")
}
