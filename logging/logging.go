package logging

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a zap logger writing to the configured log file and,
// unless disabled, warnings to stderr. Stdout is left to the test report.
func NewLogger(config *Config) (*zap.Logger, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logging config: %w", err)
	}

	level, err := config.zapLevel()
	if err != nil {
		return nil, fmt.Errorf("constructing log level: %w", err)
	}
	encoder := newEncoder(config)

	core := zapcore.NewCore(encoder, zapcore.AddSync(&config.Logger), level)
	if !config.DisableConsoleOutput {
		console := zapcore.NewCore(newEncoder(config), zapcore.Lock(os.Stderr), consoleLevel(level, config.Debug))
		core = zapcore.NewTee(core, console)
	}

	return zap.New(core, zap.AddCaller()), nil
}

// consoleLevel keeps stderr to warnings and errors unless debugging, since
// every test outcome is already printed by the report.
func consoleLevel(level zapcore.Level, debug bool) zapcore.Level {
	if debug || level > zapcore.WarnLevel {
		return level
	}
	return zapcore.WarnLevel
}

func (c *Config) zapLevel() (zapcore.Level, error) {
	if c.Debug {
		return zapcore.DebugLevel, nil
	}
	return c.Level.zapLevel()
}

func newEncoder(config *Config) zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	if config.Debug {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	if config.EncodeTimeAsRFC3339Nano {
		encoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	}

	if config.Debug {
		return zapcore.NewConsoleEncoder(encoderConfig)
	}
	return zapcore.NewJSONEncoder(encoderConfig)
}

// NewTestLogger returns a logrus backed logger for use in tests.
func NewTestLogger() Interface {
	return ForLogrus(logrus.NewEntry(logrus.New()))
}
