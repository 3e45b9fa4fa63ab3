package flagx

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	cfgFlags := []string{"-c", "-config"}

	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{"separate value", []string{"-c", "conf.json", "-a", "http://x"}, cfgFlags, []string{"-c", "conf.json"}},
		{"equals form", []string{"--config=alt.json", "-a", "x"}, cfgFlags, []string{"--config=alt.json"}},
		{"double dash matches single dash flag", []string{"--config", "a.json"}, cfgFlags, []string{"--config", "a.json"}},
		{"allowed given without dashes", []string{"-d", "cache.db"}, []string{"d"}, []string{"-d", "cache.db"}},
		{"order kept", []string{"--config=1.json", "-c", "2.json", "-x", "1"}, cfgFlags, []string{"--config=1.json", "-c", "2.json"}},
		{"unknown and positional dropped", []string{"-x", "1", "--y=2", "shared", "u-1"}, cfgFlags, []string{}},
		{"trailing flag without value", []string{"-c"}, cfgFlags, []string{"-c"}},
		{"next flag is not a value", []string{"-c", "-a"}, cfgFlags, []string{"-c"}},
		{"equals value may start with dash", []string{"--config=--weird.json"}, cfgFlags, []string{"--config=--weird.json"}},
		{"several components", []string{"-a", "http://x", "-c", "c.json", "--approve"}, []string{"-a", "-c"}, []string{"-a", "http://x", "-c", "c.json"}},
		{"empty", nil, cfgFlags, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, FilterArgs(tt.args, tt.allowed)); diff != "" {
				t.Fatalf("FilterArgs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfigPathFrom(t *testing.T) {
	t.Setenv(ConfigEnvVar, "")

	assert.Equal(t, "/p/short.json", ConfigPathFrom([]string{"-c", "/p/short.json"}))
	assert.Equal(t, "/p/long.json", ConfigPathFrom([]string{"--config", "/p/long.json"}))
	assert.Equal(t, "/p/2.json", ConfigPathFrom([]string{"-c", "/p/1.json", "-config=/p/2.json"}), "last wins")
	assert.Empty(t, ConfigPathFrom([]string{"-a", "http://x", "shared", "u-1"}))

	t.Setenv(ConfigEnvVar, "/etc/depositkeeper.json")
	assert.Equal(t, "/etc/depositkeeper.json", ConfigPathFrom(nil))
	assert.Equal(t, "/p/flag.json", ConfigPathFrom([]string{"-c", "/p/flag.json"}))
}

func TestConfigPathReadsOSArgs(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	t.Setenv(ConfigEnvVar, "")

	os.Args = []string{"depositkeeper", "-c", "/p/os.json"}
	assert.Equal(t, "/p/os.json", ConfigPath())
}
