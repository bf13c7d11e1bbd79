package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("warn", "json", &buf)
	require.NoError(t, err)

	logger.Info("dropped")
	logger.WithField("ticker", "AAA").Warn("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "AAA", entry["ticker"])
	assert.Equal(t, "warning", entry["level"])
}

func TestNew_Errors(t *testing.T) {
	_, err := New("loud", "text", nil)
	assert.Error(t, err)
	_, err = New("info", "xml", nil)
	assert.Error(t, err)

	logger, err := New("debug", "", nil)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
}
