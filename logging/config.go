package logging

import (
	"fmt"

	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultFilename is the log file written when no filename is configured.
const DefaultFilename = "s3-api-suite.log"

// Config holds the logging configuration.
type Config struct {
	// Debug forces the DEBUG level and switches to the console encoder.
	Debug bool `mapstructure:"debug"`

	// Level defaults to INFO.
	Level Level `mapstructure:"level"`

	EncodeTimeAsRFC3339Nano bool `mapstructure:"encodeTimeAsRFC3339Nano"`

	// DisableConsoleOutput keeps log lines out of stderr so only the
	// test report reaches the terminal.
	DisableConsoleOutput bool `mapstructure:"disableConsoleOutput"`

	// Logger configures the rotating log file.
	lumberjack.Logger `mapstructure:",squash"`
}

// Option mutates a Config.
type Option func(*Config) error

func (c *Config) Validate() error {
	if c.MaxSize < 0 {
		return fmt.Errorf("maxsize must be >= 0, not %d", c.MaxSize)
	}
	if c.MaxBackups < 0 {
		return fmt.Errorf("maxbackups must be >= 0, not %d", c.MaxBackups)
	}
	if c.MaxAge < 0 {
		return fmt.Errorf("maxage days must be >= 0, not %d", c.MaxAge)
	}
	if err := c.Level.Validate(); err != nil {
		return fmt.Errorf("invalid level: %w", err)
	}
	return nil
}

// WithFilename overrides the log file location.
func WithFilename(filename string) Option {
	return func(c *Config) error {
		if filename != "" {
			c.Filename = filename
		}
		return nil
	}
}

// WithLevel overrides the configured level when level is not empty.
func WithLevel(level string) Option {
	return func(c *Config) error {
		if level == "" {
			return nil
		}
		l, err := ParseLevel(level)
		if err != nil {
			return err
		}
		c.Level = l
		return nil
	}
}

// WithDebug enables debug logging when debug is true. It never turns debug off.
func WithDebug(debug bool) Option {
	return func(c *Config) error {
		c.Debug = c.Debug || debug
		return nil
	}
}

func (c *Config) Apply(opts ...Option) error {
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(c); err != nil {
			return err
		}
	}
	return nil
}

// NewConfig returns a Config writing to DefaultFilename with opts applied.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{Logger: lumberjack.Logger{Filename: DefaultFilename}}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}
