package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nsfgstats/internal/config"
	"nsfgstats/internal/errors"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(config.LoggingConfig{Level: "debug", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.WithField("column", "prglngth").Debug("histogram built")

	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.Contains(t, buf.String(), `"column":"prglngth"`)
	assert.Contains(t, buf.String(), `"msg":"histogram built"`)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(config.LoggingConfig{Level: "chatty", Format: "text"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Info("dropped")
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}
