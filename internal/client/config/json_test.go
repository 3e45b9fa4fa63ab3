package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withArgs runs parseJson on a fresh default Config with the given
// command line and config env var.
func withArgs(t *testing.T, env string, args ...string) *Config {
	t.Helper()
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = append([]string{"depositkeeper"}, args...)
	t.Setenv("DEPOSITKEEPER_CONFIG", env)

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	return cfg
}

func TestParseJson(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "s3.json")
	require.NoError(t, os.WriteFile(file, []byte(`{
		"environment": "production",
		"share_origin": "https://share.example/",
		"public_request_timeout": "3s",
		"online_check_interval": 30000000000,
		"photo_store": "s3",
		"s3_bucket": "walkthroughs"
	}`), 0o600))

	for name, cfg := range map[string]*Config{
		"-c flag":     withArgs(t, "", "-c", file),
		"--config=":   withArgs(t, "", "--config="+file),
		"env var":     withArgs(t, file),
		"flag wins":   withArgs(t, filepath.Join(dir, "absent.json"), "-config", file),
		"mixed flags": withArgs(t, "", "-a", "http://x", "-c", file, "shared", "u-1"),
	} {
		t.Run(name, func(t *testing.T) {
			assert.True(t, cfg.IsProduction())
			assert.Equal(t, "https://share.example", cfg.Origin())
			assert.Equal(t, 3*time.Second, cfg.PublicRequestTimeout)
			assert.Equal(t, 30*time.Second, cfg.OnlineCheckInterval)
			assert.Equal(t, "s3", cfg.PhotoStore)
			assert.Equal(t, "walkthroughs", cfg.S3Bucket)
			assert.Equal(t, "depositkeeper.db", cfg.DatabasePath, "absent fields keep their value")
		})
	}
}

func TestParseJson_NoFileLeavesConfig(t *testing.T) {
	cfg := withArgs(t, "")
	want := &Config{}
	want.LoadDefaults()
	assert.Equal(t, want, cfg)
}

func TestParseJson_BadFilePanics(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{ not json`), 0o600))

	assert.Panics(t, func() { withArgs(t, "", "-c", bad) })
	assert.Panics(t, func() { withArgs(t, "", "-c", bad+".missing") })
}
