package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog.Logger with printf-style helpers
type Logger struct {
	zl zerolog.Logger
}

// New creates a new logger writing human-readable output to stdout
func New() *Logger {
	out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	return &Logger{
		zl: zerolog.New(out).Level(zerolog.InfoLevel).With().Timestamp().Logger(),
	}
}

// NewWriter creates a new logger that writes JSON lines to the provided
// writer (e.g. a log file)
func NewWriter(w io.Writer) *Logger {
	return &Logger{
		zl: zerolog.New(w).Level(zerolog.InfoLevel).With().Timestamp().Logger(),
	}
}

// Printf logs a formatted message at info level
func (l *Logger) Printf(format string, v ...any) {
	l.zl.Info().Msgf(format, v...)
}

// Println logs a message at info level
func (l *Logger) Println(v ...any) {
	l.zl.Info().Msg(fmt.Sprint(v...))
}

// Debugf logs a formatted message at debug level
func (l *Logger) Debugf(format string, v ...any) {
	l.zl.Debug().Msgf(format, v...)
}

// Errorf logs a formatted message at error level
func (l *Logger) Errorf(format string, v ...any) {
	l.zl.Error().Msgf(format, v...)
}

// SetLevel sets the minimum level the logger emits
func (l *Logger) SetLevel(level zerolog.Level) {
	l.zl = l.zl.Level(level)
}
