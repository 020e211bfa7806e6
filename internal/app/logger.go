package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/andyballingall/repofmt/internal/fs"
)

// LogEnvVar names a file that receives a JSON log of every run at debug level.
const LogEnvVar = "REPOFMT_LOG_FILE"

// setupLogger returns a logger writing clean, human-readable messages to
// stderr and, when LogEnvVar is set, structured records to that file. If the
// file cannot be opened the console logger is still returned with the error.
func setupLogger(stderr io.Writer, logLevel *slog.LevelVar, env fs.EnvProvider) (*slog.Logger, io.Closer, error) {
	console := &consoleHandler{
		w:     stderr,
		level: logLevel,
	}

	logPath := env.Get(LogEnvVar)
	if logPath == "" {
		return slog.New(console), nil, nil
	}

	//nolint:gosec // the log path is chosen by the user
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return slog.New(console), nil, fmt.Errorf("failed to open log file: %w", err)
	}

	multi := &multiHandler{
		handlers: []slog.Handler{
			slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}),
			console,
		},
	}
	return slog.New(multi), f, nil
}

type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (m *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, record.Level) {
			if err := h.Handle(ctx, record); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}

type consoleHandler struct {
	w     io.Writer
	level *slog.LevelVar
	attrs []slog.Attr
}

func (c *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= c.level.Level()
}

// Handle renders the record into one Write so lines from concurrent workers
// do not interleave.
//
//nolint:gocritic // slog.Record is passed by value in the interface
func (c *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	var b strings.Builder
	switch {
	case record.Level >= slog.LevelError:
		fmt.Fprintf(&b, "Error: %s", record.Message)
	case record.Level >= slog.LevelWarn:
		fmt.Fprintf(&b, "Warning: %s", record.Message)
	default:
		b.WriteString(record.Message)
	}

	for _, a := range c.attrs {
		c.formatAttr(&b, a)
	}

	record.Attrs(func(a slog.Attr) bool {
		c.formatAttr(&b, a)
		return true
	})

	b.WriteByte('\n')
	_, err := io.WriteString(c.w, b.String())
	return err
}

func (c *consoleHandler) formatAttr(b *strings.Builder, a slog.Attr) {
	switch {
	case a.Key == "error" || a.Key == "err":
		fmt.Fprintf(b, ": %v", a.Value)
	case a.Key == "component":
		// Only useful in the log file.
	case c.level.Level() <= slog.LevelDebug:
		fmt.Fprintf(b, " %s=%v", a.Key, a.Value)
	}
}

func (c *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &consoleHandler{
		w:     c.w,
		level: c.level,
		attrs: append(slices.Clip(c.attrs), attrs...),
	}
}

func (c *consoleHandler) WithGroup(_ string) slog.Handler {
	return c
}
