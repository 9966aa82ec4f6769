package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu  sync.Mutex
	log *logrus.Logger
)

// Init configures the shared logger. Output goes to out (stderr when nil) so
// it never interleaves with command output on stdout.
func Init(level, format string, out io.Writer) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	l := logrus.New()
	if out == nil {
		out = os.Stderr
	}
	l.SetOutput(out)
	l.SetLevel(lvl)

	switch format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
		})
	default:
		return fmt.Errorf("unknown log format %q", format)
	}

	mu.Lock()
	log = l
	mu.Unlock()
	return nil
}

// ParseLevel maps a config level name to a logrus level. Empty means info.
func ParseLevel(level string) (logrus.Level, error) {
	switch level {
	case "debug":
		return logrus.DebugLevel, nil
	case "", "info":
		return logrus.InfoLevel, nil
	case "warn":
		return logrus.WarnLevel, nil
	case "error":
		return logrus.ErrorLevel, nil
	default:
		return logrus.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// GetLogger returns the configured logger instance
func GetLogger() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	if log == nil {
		log = logrus.New()
		log.SetOutput(os.Stderr)
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}

// Component returns an entry tagged with the given component name
func Component(name string) *logrus.Entry {
	return GetLogger().WithField("component", name)
}

// WithField adds a field to the logger
func WithField(key string, value interface{}) *logrus.Entry {
	return GetLogger().WithField(key, value)
}

// WithFields adds multiple fields to the logger
func WithFields(fields logrus.Fields) *logrus.Entry {
	return GetLogger().WithFields(fields)
}

// WithError adds an error field to the logger
func WithError(err error) *logrus.Entry {
	return GetLogger().WithError(err)
}

// Debugf logs a formatted debug message
func Debugf(format string, args ...interface{}) {
	GetLogger().Debugf(format, args...)
}

// Infof logs a formatted info message
func Infof(format string, args ...interface{}) {
	GetLogger().Infof(format, args...)
}

// Warnf logs a formatted warning message
func Warnf(format string, args ...interface{}) {
	GetLogger().Warnf(format, args...)
}
