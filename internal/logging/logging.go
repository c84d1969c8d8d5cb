// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

type FormatterType string

const (
	FormatterPrefixed FormatterType = "prefixed"
	FormatterText     FormatterType = "text"
	FormatterJSON     FormatterType = "json"
)

// NewFormatter returns the formatter for t; unknown names get the prefixed one.
func NewFormatter(t FormatterType) logrus.Formatter {
	switch t {
	case FormatterText:
		return &logrus.TextFormatter{FullTimestamp: true}
	case FormatterJSON:
		return &logrus.JSONFormatter{}
	}
	return &prefixed.TextFormatter{FullTimestamp: true}
}

// Setup applies level and format to the standard logger. An empty level
// means info.
func Setup(level, format string) error {
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logger := logrus.StandardLogger()
	logger.SetLevel(lvl)
	logger.SetFormatter(NewFormatter(FormatterType(strings.ToLower(format))))
	return nil
}

// SetOutput redirects the standard logger. The CLI points it at the
// command's error stream.
func SetOutput(w io.Writer) {
	logrus.StandardLogger().SetOutput(w)
}

// For returns a logger tagged with the given component name.
func For(component string) *logrus.Entry {
	return logrus.WithField("component", component)
}
