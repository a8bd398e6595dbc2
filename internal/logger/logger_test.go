package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitJSONLogger(t *testing.T) {
	log, err := InitJSONLogger("")
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = InitJSONLogger("debug")
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestInitJSONLogger_InvalidLevel(t *testing.T) {
	_, err := InitJSONLogger("loud")
	assert.Error(t, err)
}
