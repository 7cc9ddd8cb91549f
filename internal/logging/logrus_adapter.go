package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogrusAdapter implements Logger on top of logrus. Children share the
// parent's *logrus.Logger and extend its entry.
type LogrusAdapter struct {
	logger *logrus.Logger
	entry  *logrus.Entry
}

// AdapterOption customizes the logrus logger built by NewLogrusAdapter.
type AdapterOption func(*logrus.Logger)

// WithOutput sends log lines to w instead of stderr.
func WithOutput(w io.Writer) AdapterOption {
	return func(l *logrus.Logger) {
		l.SetOutput(w)
	}
}

// ParseLevel accepts debug, info, warn and error in any case. Unknown
// values report false.
func ParseLevel(level string) (logrus.Level, bool) {
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return logrus.InfoLevel, false
	}
	return lvl, true
}

// NewLogrusAdapter creates a logrus-backed Logger.
//
// Invalid levels fall back to info; format "json" selects the JSON formatter,
// anything else the text formatter with full timestamps.
func NewLogrusAdapter(level, format string, opts ...AdapterOption) Logger {
	logger := logrus.New()

	lvl, ok := ParseLevel(level)
	if !ok {
		logger.Warnf("Invalid log level '%s', using 'info'", level)
	}
	logger.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	for _, opt := range opts {
		opt(logger)
	}
	return NewLogrusAdapterFromLogger(logger)
}

// NewLogrusAdapterFromLogger wraps an existing logrus.Logger.
func NewLogrusAdapterFromLogger(logger *logrus.Logger) Logger {
	if logger == nil {
		logger = logrus.New()
	}
	return &LogrusAdapter{logger: logger, entry: logrus.NewEntry(logger)}
}

func (l *LogrusAdapter) with(fields []Field) *logrus.Entry {
	if len(fields) == 0 {
		return l.entry
	}
	return l.entry.WithFields(convertFields(fields))
}

func (l *LogrusAdapter) child(entry *logrus.Entry) Logger {
	return &LogrusAdapter{logger: l.logger, entry: entry}
}

func (l *LogrusAdapter) Debug(msg string, fields ...Field) { l.with(fields).Debug(msg) }
func (l *LogrusAdapter) Info(msg string, fields ...Field)  { l.with(fields).Info(msg) }
func (l *LogrusAdapter) Warn(msg string, fields ...Field)  { l.with(fields).Warn(msg) }
func (l *LogrusAdapter) Error(msg string, fields ...Field) { l.with(fields).Error(msg) }

// WithError returns a child logger with the error under the "error" key.
func (l *LogrusAdapter) WithError(err error) Logger {
	return l.child(l.entry.WithError(err))
}

// WithField returns a child logger carrying one extra field.
func (l *LogrusAdapter) WithField(key string, value interface{}) Logger {
	return l.child(l.entry.WithField(key, value))
}

// WithFields returns a child logger carrying the given fields.
func (l *LogrusAdapter) WithFields(fields ...Field) Logger {
	return l.child(l.with(fields))
}

// convertFields maps Fields to logrus.Fields; a repeated key keeps the last value.
func convertFields(fields []Field) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Value
	}
	return out
}
