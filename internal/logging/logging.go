package logging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// Setup points slog's default logger at stdout (info and up) plus an
// append-only diagnostic log file that receives only warnings and errors.
// The file is written, never read back. The caller owns closing the
// returned file.
func Setup(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}

	slog.SetDefault(slog.New(NewTeeHandler(
		slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)))
	return f, nil
}

// TeeHandler fans records out to two handlers, each keeping its own level
// gate.
type TeeHandler struct {
	a, b slog.Handler
}

func NewTeeHandler(a, b slog.Handler) *TeeHandler {
	return &TeeHandler{a: a, b: b}
}

func (h *TeeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.a.Enabled(ctx, level) || h.b.Enabled(ctx, level)
}

func (h *TeeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errA, errB error
	if h.a.Enabled(ctx, r.Level) {
		errA = h.a.Handle(ctx, r.Clone())
	}
	if h.b.Enabled(ctx, r.Level) {
		errB = h.b.Handle(ctx, r.Clone())
	}
	return errors.Join(errA, errB)
}

func (h *TeeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TeeHandler{a: h.a.WithAttrs(attrs), b: h.b.WithAttrs(attrs)}
}

func (h *TeeHandler) WithGroup(name string) slog.Handler {
	return &TeeHandler{a: h.a.WithGroup(name), b: h.b.WithGroup(name)}
}
