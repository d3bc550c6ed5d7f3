package config

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFile is the name of the rotated log file inside Config.LogDir.
const LogFile = "nc_ac_faben.log"

// InitLogger sets the default slog logger: colored output on stderr and a
// rotated plain text file in the log directory. The returned closer flushes
// the file.
func InitLogger(cfg Config) (io.Closer, error) {
	console := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      cfg.LogLevel,
		TimeFormat: time.Kitchen,
	})

	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		slog.SetDefault(slog.New(console))
		return io.NopCloser(nil), err
	}

	file := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, LogFile),
		MaxSize:    10, // megabytes
		MaxBackups: 5,
	}
	text := slog.NewTextHandler(file, &slog.HandlerOptions{
		Level:     cfg.LogLevel,
		AddSource: true,
	})

	slog.SetDefault(slog.New(fanout{console, text}))
	return file, nil
}

// fanout sends each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
