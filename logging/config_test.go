package logging

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewConfig_Defaults(t *testing.T) {
	c, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultFilename, c.Filename)
	assert.False(t, c.Debug)

	require.NoError(t, c.Apply(WithFilename(""), WithDebug(true)))
	assert.Equal(t, DefaultFilename, c.Filename)
	assert.True(t, c.Debug)

	require.NoError(t, c.Apply(WithDebug(false)))
	assert.True(t, c.Debug, "debug is never switched off by a flag")
}

func TestWithLevel(t *testing.T) {
	c, err := NewConfig(WithLevel("warn"))
	require.NoError(t, err)
	assert.Equal(t, LevelWarn, c.Level)

	require.NoError(t, c.Apply(WithLevel("")))
	assert.Equal(t, LevelWarn, c.Level, "an empty level keeps the configured one")

	_, err = NewConfig(WithLevel("trace"))
	require.Error(t, err)
}

func TestConsoleLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, consoleLevel(zapcore.InfoLevel, false))
	assert.Equal(t, zapcore.ErrorLevel, consoleLevel(zapcore.ErrorLevel, false))
	assert.Equal(t, zapcore.DebugLevel, consoleLevel(zapcore.DebugLevel, true))
}

func TestConfig_Validate(t *testing.T) {
	c, err := NewConfig()
	require.NoError(t, err)

	c.MaxAge = -1
	require.Error(t, c.Validate())

	c.MaxAge = 0
	c.Level = "verbose"
	require.Error(t, c.Validate())
}

func TestNewLogger(t *testing.T) {
	dir := t.TempDir()
	c, err := NewConfig(WithFilename(filepath.Join(dir, "suite.log")))
	require.NoError(t, err)
	c.DisableConsoleOutput = true

	zl, err := NewLogger(c)
	require.NoError(t, err)
	ForZap(zl).WithField("test", "create_bucket").Info("hello")
	require.NoError(t, zl.Sync())
	require.FileExists(t, filepath.Join(dir, "suite.log"))

	c.Level = "loud"
	_, err = NewLogger(c)
	require.Error(t, err)
}
