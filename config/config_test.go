package config

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumafield/s3-api-suite/logging"
)

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o600))
}

func TestLoad_JSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/etc/suite/credentials.json", `{
  "access_key": "AKIAEXAMPLE",
  "secret_key": "secret",
  "region": "eu-central-1",
  "endpoint_url": "https://minio.local:9000",
  "path_style": true,
  "timeout": "30s",
  "logging": {"level": "debug"}
}`)

	c, err := Load(fs, "/etc/suite/credentials.json")
	require.NoError(t, err)

	assert.Equal(t, "AKIAEXAMPLE", c.AccessKey)
	assert.Equal(t, "secret", c.SecretKey)
	assert.Equal(t, "eu-central-1", c.Region)
	assert.Equal(t, "https://minio.local:9000", c.CustomEndpoint())
	assert.True(t, c.PathStyle)
	assert.True(t, c.UseStaticCredentials())
	assert.Equal(t, 30*time.Second, c.Timeout)
	assert.Equal(t, int64(DefaultPartSizeMB), c.PartSizeMB)
	assert.Equal(t, DefaultBucketPrefix, c.BucketPrefix)
	assert.Equal(t, logging.Level("debug"), c.Logging.Level)
	assert.Equal(t, logging.DefaultFilename, c.Logging.Filename)
}

func TestLoad_Defaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "credentials.json", `{}`)

	c, err := Load(fs, "credentials.json")
	require.NoError(t, err)

	assert.Equal(t, DefaultRegion, c.Region)
	assert.Equal(t, DefaultEndpoint, c.EndpointURL)
	assert.Empty(t, c.CustomEndpoint(), "the public endpoint is left to the SDK")
	assert.False(t, c.UseStaticCredentials())
	assert.Equal(t, DefaultTimeout, c.Timeout)
}

func TestLoad_YAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "credentials.yaml", "access_key: a\nsecret_key: b\nregion: us-west-2\n")

	c, err := Load(fs, "credentials.yaml")
	require.NoError(t, err)
	assert.Equal(t, "us-west-2", c.Region)
}

func TestLoad_EnvOverride(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "credentials.json", `{"access_key": "a", "secret_key": "b"}`)
	t.Setenv("S3SUITE_REGION", "ap-south-1")
	t.Setenv("S3SUITE_LOGGING_LEVEL", "error")

	c, err := Load(fs, "credentials.json")
	require.NoError(t, err)
	assert.Equal(t, "ap-south-1", c.Region)
	assert.Equal(t, logging.Level("error"), c.Logging.Level)
}

func TestLoad_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := Load(fs, "missing.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials file not found")

	writeFile(t, fs, "credentials", `{}`)
	_, err = Load(fs, "credentials")
	require.True(t, errors.Is(err, ErrInvalidConfig))

	writeFile(t, fs, "credentials.txt", `{}`)
	_, err = Load(fs, "credentials.txt")
	require.True(t, errors.Is(err, ErrInvalidConfig))

	writeFile(t, fs, "half.json", `{"access_key": "only-access"}`)
	_, err = Load(fs, "half.json")
	require.True(t, errors.Is(err, ErrInvalidConfig))

	writeFile(t, fs, "parts.json", `{"part_size_mb": 1}`)
	_, err = Load(fs, "parts.json")
	require.True(t, errors.Is(err, ErrInvalidConfig))
}
