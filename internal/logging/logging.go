// Package logging provides the process-wide structured logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu  sync.RWMutex
	log = newLogger(os.Stderr, logrus.InfoLevel)
)

func newLogger(out io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	l.SetLevel(level)
	l.SetOutput(out)
	return l
}

// Init configures the logger. An unknown level falls back to info; a
// non-empty file receives a copy of everything written to stderr.
func Init(levelStr string, filePath string) error {
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}

	writers := []io.Writer{os.Stderr}
	if filePath != "" {
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", filePath, err)
		}
		writers = append(writers, file)
	}

	SetLogger(newLogger(io.MultiWriter(writers...), level))
	return nil
}

// L returns the current logger.
func L() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// SetLogger replaces the current logger, mainly for tests.
func SetLogger(l *logrus.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}
