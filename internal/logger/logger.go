package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Fields are structured key/value pairs attached to a single log line.
type Fields map[string]any

// Logger is the logging interface used across the module.
type Logger interface {
	Trace(msg string, fields Fields)
	Debug(msg string, fields Fields)
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, fields Fields)
	Critical(msg string, fields Fields)
}

type logrusLogger struct {
	logger *logrus.Logger
}

var _ Logger = &logrusLogger{}

// NewLogger returns a Logger writing text formatted lines to stderr.
func NewLogger(level logrus.Level) Logger {
	return NewLoggerTo(os.Stderr, level, &logrus.TextFormatter{})
}

func NewLoggerTo(out io.Writer, level logrus.Level, formatter logrus.Formatter) Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	logger.SetFormatter(formatter)
	return &logrusLogger{logger}
}

// NewNullLogger returns a Logger that discards everything.
func NewNullLogger() Logger {
	return NewLoggerTo(io.Discard, logrus.PanicLevel, &logrus.TextFormatter{})
}

// ParseLevel accepts the logrus level names (trace, debug, info, warn, error, fatal, panic).
func ParseLevel(level string) (logrus.Level, error) {
	return logrus.ParseLevel(level)
}

func (l *logrusLogger) Trace(msg string, fields Fields) {
	l.logger.WithFields(logrus.Fields(fields)).Trace(msg)
}

func (l *logrusLogger) Debug(msg string, fields Fields) {
	l.logger.WithFields(logrus.Fields(fields)).Debug(msg)
}

func (l *logrusLogger) Info(msg string, fields Fields) {
	l.logger.WithFields(logrus.Fields(fields)).Info(msg)
}

func (l *logrusLogger) Warn(msg string, fields Fields) {
	l.logger.WithFields(logrus.Fields(fields)).Warn(msg)
}

func (l *logrusLogger) Error(msg string, fields Fields) {
	l.logger.WithFields(logrus.Fields(fields)).Error(msg)
}

func (l *logrusLogger) Critical(msg string, fields Fields) {
	l.logger.WithFields(logrus.Fields(fields)).Error("CRITICAL: " + msg)
}
