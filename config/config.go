// Package config loads the credentials file that points the suite at an
// S3 compatible endpoint.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/lumafield/s3-api-suite/logging"
)

// EnvPrefix prefixes environment overrides, e.g. S3SUITE_ACCESS_KEY or S3SUITE_LOGGING_LEVEL.
const EnvPrefix = "S3SUITE"

// DefaultEndpoint is the public AWS endpoint. Configuring it is the same as
// configuring no endpoint at all.
const DefaultEndpoint = "https://s3.amazonaws.com"

const (
	DefaultFile         = "credentials.json"
	DefaultRegion       = "us-east-1"
	DefaultBucketPrefix = "test-bucket"
	DefaultTimeout      = 180 * time.Second
	DefaultPartSizeMB   = 10
)

// ErrInvalidConfig is returned for a credentials file that can't be used.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	AccessKey    string        `mapstructure:"access_key"`
	SecretKey    string        `mapstructure:"secret_key"`
	SessionToken string        `mapstructure:"session_token"`
	Region       string        `mapstructure:"region"`
	EndpointURL  string        `mapstructure:"endpoint_url"`
	BucketPrefix string        `mapstructure:"bucket_prefix"`
	PathStyle    bool          `mapstructure:"path_style"`
	Insecure     bool          `mapstructure:"insecure"`
	Timeout      time.Duration `mapstructure:"timeout"`
	PartSizeMB   int64         `mapstructure:"part_size_mb"`

	Logging logging.Config `mapstructure:"logging"`
}

// CustomEndpoint returns the endpoint to hand to the SDK, or "" when the SDK
// should resolve the endpoint itself.
func (c *Config) CustomEndpoint() string {
	if strings.TrimRight(c.EndpointURL, "/") == DefaultEndpoint {
		return ""
	}
	return c.EndpointURL
}

// UseStaticCredentials reports whether keys were configured. Without keys the
// SDK default credential chain is used.
func (c *Config) UseStaticCredentials() bool {
	return c.AccessKey != ""
}

func (c *Config) Validate() error {
	if (c.AccessKey == "") != (c.SecretKey == "") {
		return fmt.Errorf("%w: access_key and secret_key must be set together", ErrInvalidConfig)
	}
	if c.Region == "" {
		return fmt.Errorf("%w: region must not be empty", ErrInvalidConfig)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be > 0, not %s", ErrInvalidConfig, c.Timeout)
	}
	// the SDK rejects multipart parts below 5 MiB
	if c.PartSizeMB < 5 {
		return fmt.Errorf("%w: part_size_mb must be >= 5, not %d", ErrInvalidConfig, c.PartSizeMB)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// NewViper returns a viper instance with the suite defaults and environment
// overrides applied, reading files from fs.
func NewViper(fs afero.Fs) *viper.Viper {
	v := viper.New()
	v.SetFs(fs)

	v.SetDefault("access_key", "")
	v.SetDefault("secret_key", "")
	v.SetDefault("session_token", "")
	v.SetDefault("region", DefaultRegion)
	v.SetDefault("endpoint_url", DefaultEndpoint)
	v.SetDefault("bucket_prefix", DefaultBucketPrefix)
	v.SetDefault("path_style", false)
	v.SetDefault("insecure", false)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("part_size_mb", DefaultPartSizeMB)
	v.SetDefault("logging.level", string(logging.LevelInfo))
	v.SetDefault("logging.filename", logging.DefaultFilename)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the credentials file at path. The file type follows the
// extension, so credentials.yaml and credentials.toml work as well as json.
func Load(fs afero.Fs, path string) (*Config, error) {
	v := NewViper(fs)
	if err := readFile(fs, v, path); err != nil {
		return nil, err
	}
	return FromViper(v)
}

// FromViper unmarshals and validates a Config.
func FromViper(v *viper.Viper) (*Config, error) {
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func readFile(fs afero.Fs, v *viper.Viper, path string) error {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("credentials file not found: %s", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return fmt.Errorf("%w: credentials file %s has no extension", ErrInvalidConfig, path)
	}
	supported := false
	for _, e := range viper.SupportedExts {
		if ext[1:] == e {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("%w: unsupported credentials file extension: %s", ErrInvalidConfig, ext)
	}

	v.SetConfigType(ext[1:])
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("cannot read credentials file: %w", err)
	}
	return nil
}
