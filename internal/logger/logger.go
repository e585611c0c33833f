package logger

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	globalLogger = zerolog.Nop()
	once         sync.Once
)

// InitLogging configures the global zerolog logger once per process.
// Output goes to stdout and, when logFilePath is set, is appended to that file.
func InitLogging(logFilePath, level string) {
	once.Do(func() {
		globalLogger = New(os.Stdout, logFilePath, level)
		// Set the global logger used by the zerolog/log package for convenience.
		log.Logger = globalLogger
	})
}

// New builds a logger writing to w (and the optional file) at the given level.
func New(w io.Writer, logFilePath, level string) zerolog.Logger {
	writers := []io.Writer{w}
	if logFilePath != "" {
		file, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0664)
		if err != nil {
			// We can't use the logger yet, so just print to stderr
			os.Stderr.WriteString("Failed to open log file: " + err.Error() + "\n")
		} else {
			writers = append(writers, file)
		}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	multi := zerolog.MultiLevelWriter(writers...)
	return zerolog.New(multi).With().Timestamp().Logger().Level(lvl)
}

// Global returns the process logger; a no-op logger until InitLogging runs.
func Global() zerolog.Logger {
	return globalLogger
}

// WithLogger returns a new context containing the logger with additional fields.
func WithLogger(ctx context.Context, fields map[string]interface{}) context.Context {
	l := getLogger(ctx).With().Fields(fields).Logger()
	return l.WithContext(ctx)
}

// getLogger extracts the zerolog logger from the context, falling back to the global logger.
func getLogger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	// zerolog.Ctx returns a disabled logger if none is in context
	if l.GetLevel() == zerolog.Disabled {
		return &globalLogger
	}
	return l
}

// DebugLog logs a debug level message.
func DebugLog(ctx context.Context, msg string, args ...interface{}) {
	getLogger(ctx).Debug().Msgf(msg, args...)
}

// InfoLog logs an info level message.
func InfoLog(ctx context.Context, msg string, args ...interface{}) {
	getLogger(ctx).Info().Msgf(msg, args...)
}

// WarnLog logs a warning level message.
func WarnLog(ctx context.Context, msg string, args ...interface{}) {
	getLogger(ctx).Warn().Msgf(msg, args...)
}

// ErrorLog logs an error level message. msg is a format string for args;
// a leading error argument is also attached as the structured "error" field.
func ErrorLog(ctx context.Context, msg string, args ...interface{}) {
	event := getLogger(ctx).Error()
	if len(args) > 0 {
		if err, ok := args[0].(error); ok {
			event = event.Err(err)
		}
	}
	event.Msgf(msg, args...)
}
