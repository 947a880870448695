package logging

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevelsAndFormats(t *testing.T) {
	logger, closer, err := New(Options{Level: "debug", Format: "json"})
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	_, _, err = New(Options{Level: "loud"})
	assert.Error(t, err)
	_, _, err = New(Options{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestNewRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapview.log")
	logger, closer, err := New(Options{Level: "info", File: path, MaxSizeMB: 1})
	require.NoError(t, err)

	logger.Info("hello")
	require.NoError(t, closer.Close())
	assert.FileExists(t, path)
}

func TestOrDiscard(t *testing.T) {
	assert.NotNil(t, OrDiscard(nil))
	logger := logrus.New()
	assert.Same(t, logger, OrDiscard(logger))
}
