package logging

import (
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	defaultMu     sync.RWMutex
	defaultLogrus = logrus.New()
	defaultLogger Logger = NewLogrusAdapterFromLogger(defaultLogrus)
)

// GetLogger returns the process-wide default logger. Constructors fall back to it
// when they are handed a nil Logger.
func GetLogger() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetLogger replaces the process-wide default logger. A nil logger is ignored.
func SetLogger(logger Logger) {
	if logger == nil {
		return
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}

// SetAllLogLevels sets the level of the global logrus logger and of the
// default adapter.
func SetAllLogLevels(level logrus.Level) {
	logrus.SetLevel(level)

	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogrus.SetLevel(level)
	if adapter, ok := defaultLogger.(*LogrusAdapter); ok {
		adapter.logger.SetLevel(level)
	}
}

// OrDefault returns logger, or the default logger when logger is nil.
func OrDefault(logger Logger) Logger {
	if logger == nil {
		return GetLogger()
	}
	return logger
}
