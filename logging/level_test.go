package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLevel(t *testing.T) {
	t.Run("ParseLevel", func(t *testing.T) {
		cases := map[string]Level{
			"info":  LevelInfo,
			"InFo":  LevelInfo,
			"warn":  LevelWarn,
			"error": LevelError,
			"debug": LevelDebug,
			"":      LevelInfo,
		}
		for in, want := range cases {
			t.Run(in, func(t *testing.T) {
				got, err := ParseLevel(in)
				require.NoError(t, err)
				require.Equal(t, want, got)
			})
		}
	})

	t.Run("ParseLevel unknown", func(t *testing.T) {
		_, err := ParseLevel("trace")
		require.Error(t, err)
	})

	t.Run("zapLevel", func(t *testing.T) {
		cases := map[Level]zapcore.Level{
			"":         zapcore.InfoLevel,
			"debug":    zapcore.DebugLevel,
			LevelWarn:  zapcore.WarnLevel,
			LevelError: zapcore.ErrorLevel,
		}
		for in, want := range cases {
			got, err := in.zapLevel()
			require.NoError(t, err)
			require.Equal(t, want, got)
		}
	})

	t.Run("debug overrides level", func(t *testing.T) {
		c := &Config{Debug: true, Level: LevelError}
		got, err := c.zapLevel()
		require.NoError(t, err)
		require.Equal(t, zapcore.DebugLevel, got)
	})
}
