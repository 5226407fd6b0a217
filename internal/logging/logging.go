package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"nsfgstats/internal/config"
	"nsfgstats/internal/errors"
)

// New builds a logger from the logging configuration. Output goes to
// stderr so that command output on stdout stays clean.
func New(cfg config.LoggingConfig) (*logrus.Logger, error) {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter is New with an explicit destination
func NewWithWriter(cfg config.LoggingConfig, w io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, errors.Wrapf(errors.ConfigInvalid(err.Error()), "invalid LOG_LEVEL %q", cfg.Level)
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}

// Discard returns a logger that drops everything, for tests and library
// callers that pass no logger.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
