// Package logging builds the service logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type appNameHook struct {
	appName string
}

// Levels implements logrus.Hook.
func (h *appNameHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook.
func (h *appNameHook) Fire(entry *logrus.Entry) error {
	entry.Message = "[" + h.appName + "] " + entry.Message
	return nil
}

// New returns a text logger writing to out (default: stdout) whose messages
// are prefixed with appName. An unparseable level falls back to info.
func New(appName, level string, out io.Writer) *logrus.Logger {
	if out == nil {
		out = os.Stdout
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	levelStr := strings.ToLower(strings.TrimSpace(level))
	if levelStr == "" {
		levelStr = "info"
	}
	parsed, err := logrus.ParseLevel(levelStr)
	if err != nil {
		logger.Warnf("Invalid log level '%s', defaulting to INFO", level)
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)

	if appName != "" {
		logger.AddHook(&appNameHook{appName: appName})
	}
	return logger
}
