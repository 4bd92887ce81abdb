// Package logger configures the process-wide zerolog logger.
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the global logger. It writes to stderr so command output on stdout stays machine readable.
var Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

// Config controls level, format and destination of log output.
type Config struct {
	Level        string    `json:"level"`       // debug, info, warn, error
	Format       string    `json:"format"`      // json or pretty
	TimeFormat   string    `json:"time_format"` // defaults to RFC3339
	ReportCaller bool      `json:"report_caller"`
	Output       io.Writer `json:"-"`
}

// Init replaces the global logger according to config.
func Init(config Config) {
	level, err := zerolog.ParseLevel(config.Level)
	if err != nil || config.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	out := config.Output
	if out == nil {
		out = os.Stderr
	}
	if config.Format == "pretty" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: config.TimeFormat}
	}

	if config.TimeFormat == "" {
		zerolog.TimeFieldFormat = time.RFC3339
	} else {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if config.ReportCaller {
		ctx = ctx.Caller()
	}

	Logger = ctx.Logger()
	log.Logger = Logger
}

// Debug starts a debug level event.
func Debug() *zerolog.Event {
	return Logger.Debug()
}

// Info starts an info level event.
func Info() *zerolog.Event {
	return Logger.Info()
}

// Warn starts a warn level event.
func Warn() *zerolog.Event {
	return Logger.Warn()
}

// Error starts an error level event.
func Error() *zerolog.Event {
	return Logger.Error()
}

// Ctx returns the logger stored in ctx, or the global logger when there is none.
func Ctx(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &Logger
}

// WithContext stores l in ctx.
func WithContext(ctx context.Context, l zerolog.Logger) context.Context {
	return l.WithContext(ctx)
}
