package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/talx-hub/loyalty-ledger/internal/model"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

const (
	maxLogFileMB   = 100
	maxLogBackups  = 5
	maxLogFileDays = 28
)

// New writes to stdout, or to a rotated file when file is not empty.
func New(logLevel slog.Level, format, file string) *slog.Logger {
	var out io.Writer = os.Stdout
	if file != "" {
		out = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    maxLogFileMB,
			MaxBackups: maxLogBackups,
			MaxAge:     maxLogFileDays,
		}
	}
	return slog.New(newHandler(out, logLevel, format))
}

func newHandler(out io.Writer, logLevel slog.Level, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: logLevel}
	if strings.EqualFold(format, FormatJSON) {
		return slog.NewJSONHandler(out, opts)
	}
	return slog.NewTextHandler(out, opts)
}

func ParseLevel(raw string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func WithContext(ctx context.Context, log *slog.Logger) context.Context {
	ctxWithLogger := context.WithValue(ctx, model.KeyContextLogger, log)
	return ctxWithLogger
}

func FromContext(ctx context.Context) *slog.Logger {
	logRaw := ctx.Value(model.KeyContextLogger)
	if logRaw == nil {
		return slog.Default()
	}
	if log, ok := logRaw.(*slog.Logger); ok {
		return log
	}
	return slog.Default()
}
