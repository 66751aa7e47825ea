package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Nop until InitStructured runs, so packages can log from tests without setup
var zlog = zerolog.Nop()

// InitStructured configures the global logger on stdout
func InitStructured(env, level string) {
	zerolog.TimeFieldFormat = time.RFC3339
	zlog = New(os.Stdout, env, level)
}

// New builds a logger. Development gets console output, every other env JSON.
// Unknown levels fall back to info.
func New(w io.Writer, env, level string) zerolog.Logger {
	if env == "development" || env == "dev" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: w != os.Stdout}
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().
		Timestamp().
		Str("service", "footprints-backend").
		Logger()
}

// GetLogger returns the global zerolog logger
func GetLogger() *zerolog.Logger {
	return &zlog
}

// WithRequestID returns a child of the global logger tagged with the request id
func WithRequestID(requestID string) zerolog.Logger {
	return zlog.With().Str("request_id", requestID).Logger()
}

// Into stores l in ctx for FromContext
func Into(ctx context.Context, l zerolog.Logger) context.Context {
	return l.WithContext(ctx)
}

// FromContext returns the logger stored by Into, or the global logger
func FromContext(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &zlog
}
