package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, EnvironmentDevelopment, c.Environment)
	assert.Equal(t, 5*time.Second, c.PublicRequestTimeout)
	assert.Equal(t, 10*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, "local", c.PhotoStore)
	assert.Equal(t, "http://localhost:5000", c.BaseURL())
	assert.Equal(t, "http://localhost:3000", c.Origin())
}

func TestBaseURL_Selection(t *testing.T) {
	var c Config
	c.LoadDefaults()

	c.Environment = "Production"
	assert.Equal(t, "https://api.depositkeeper.app", c.BaseURL())
	assert.Equal(t, "https://depositkeeper.app", c.Origin())

	c.APIURL = "http://10.0.0.5:5000/"
	c.ShareOrigin = "https://share.example/"
	assert.Equal(t, "http://10.0.0.5:5000", c.BaseURL(), "explicit URL wins and loses trailing slash")
	assert.Equal(t, "https://share.example", c.Origin())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	t.Setenv("DEPOSITKEEPER_CONFIG", "")
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, 5*time.Second, cfg.PublicRequestTimeout)
}

func TestParseEnv_OverridesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DEPOSITKEEPER_ENV", "production")
	t.Setenv("DEPOSITKEEPER_PUBLIC_TIMEOUT", "2s")
	t.Setenv("DEPOSITKEEPER_PHOTO_STORE", "s3")
	t.Setenv("DEPOSITKEEPER_S3_BUCKET", "move-photos")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.True(t, c.IsProduction())
	assert.Equal(t, 2*time.Second, c.PublicRequestTimeout)
	assert.Equal(t, "s3", c.PhotoStore)
	assert.Equal(t, "move-photos", c.S3Bucket)
}

func TestParseEnv_BadDurationPanics(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DEPOSITKEEPER_PUBLIC_TIMEOUT", "soon")

	var c Config
	require.Panics(t, func() { parseEnv(&c) })
}
