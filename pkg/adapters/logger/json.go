package logger

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/user/uirecord/pkg/ports"
)

// JSONLogger writes line-delimited JSON records. Messages are not
// translated so that records stay machine-readable.
type JSONLogger struct {
	zl zerolog.Logger
}

// NewJSON creates a JSON logger writing to w at the given level.
func NewJSON(level ports.LogLevel, w io.Writer) *JSONLogger {
	zl := zerolog.New(w).Level(zerologLevel(level)).With().Timestamp().Logger()
	return &JSONLogger{zl: zl}
}

func zerologLevel(level ports.LogLevel) zerolog.Level {
	switch level {
	case ports.LevelDebug:
		return zerolog.DebugLevel
	case ports.LevelInfo:
		return zerolog.InfoLevel
	case ports.LevelWarn:
		return zerolog.WarnLevel
	case ports.LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.Disabled
	}
}

// Debug logs a debug message.
func (l *JSONLogger) Debug(msg string, args ...interface{}) {
	l.zl.Debug().Msg(format(msg, args))
}

// Info logs an informational message.
func (l *JSONLogger) Info(msg string, args ...interface{}) {
	l.zl.Info().Msg(format(msg, args))
}

// Warn logs a warning message.
func (l *JSONLogger) Warn(msg string, args ...interface{}) {
	l.zl.Warn().Msg(format(msg, args))
}

// Error logs an error message.
func (l *JSONLogger) Error(msg string, args ...interface{}) {
	l.zl.Error().Msg(format(msg, args))
}

// WithComponent returns a logger that sets the component field.
func (l *JSONLogger) WithComponent(component string) ports.Logger {
	return &JSONLogger{zl: l.zl.With().Str("component", component).Logger()}
}

// WithField returns a logger that attaches key to every record.
func (l *JSONLogger) WithField(key string, value interface{}) ports.Logger {
	return &JSONLogger{zl: l.zl.With().Interface(key, value).Logger()}
}

func format(msg string, args []interface{}) string {
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
