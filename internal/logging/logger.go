// Package logging decouples the application from the concrete logging framework.
// Components receive a Logger through their constructors; the logrus-backed
// adapter is the production implementation and MockLogger captures entries in tests.
package logging

// Logger is the structured logging interface used across the application.
// It has no fatal level: only main decides to exit.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a child logger carrying err.
	WithError(err error) Logger

	// WithField returns a child logger carrying one extra field.
	WithField(key string, value interface{}) Logger

	// WithFields returns a child logger carrying the given fields.
	WithFields(fields ...Field) Logger
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value interface{}
}
