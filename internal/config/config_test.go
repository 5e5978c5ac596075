package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/fluxdisplay/internal/config"
	"codeberg.org/mutker/fluxdisplay/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setArgs strips test-runner flags so Load parses a clean command line.
func setArgs(t *testing.T, args ...string) {
	t.Helper()
	oldArgs := os.Args
	os.Args = append([]string{"fluxdisplay"}, args...)
	t.Cleanup(func() { os.Args = oldArgs })
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fluxdisplay.conf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	setArgs(t)
	path := writeConfig(t, `
cpu_device = "/sys/class/hwmon/hwmon1/temp1_input"
polling_interval = 500
verbose = true
`)
	t.Setenv("FLUXDISPLAY_CONFIG", path)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "/sys/class/hwmon/hwmon1/temp1_input", cfg.CPUDevice)
	assert.Equal(t, 500, cfg.PollingInterval)
	assert.True(t, cfg.Verbose)
	assert.False(t, cfg.Debug)
}

func TestLoadDefaults(t *testing.T) {
	setArgs(t)
	// point at a file that does not exist so system-wide config is ignored
	t.Setenv("FLUXDISPLAY_CONFIG", filepath.Join(t.TempDir(), "missing.conf"))

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.CPUDevice)
	assert.Equal(t, config.DefaultPollingInterval, cfg.PollingInterval)
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.Verbose)
}

func TestLoadInvalidFormat(t *testing.T) {
	setArgs(t)
	path := writeConfig(t, "this is not valid TOML")
	t.Setenv("FLUXDISPLAY_CONFIG", path)

	_, err := config.Load()
	require.Error(t, err)
	assert.Equal(t, errors.ErrReadConfig, errors.CodeOf(err))
}

func TestLoadConfigFlag(t *testing.T) {
	path := writeConfig(t, "polling_interval = 250\n")
	setArgs(t, "--config", path)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.PollingInterval)
}

func TestLoadDebugFlagOverridesFile(t *testing.T) {
	path := writeConfig(t, "debug = false\n")
	setArgs(t, "--debug")
	t.Setenv("FLUXDISPLAY_CONFIG", path)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
}

func TestValidateClampsPollingInterval(t *testing.T) {
	cases := []struct {
		name     string
		interval int
		want     int
	}{
		{"below minimum", 10, config.MinPollingInterval},
		{"at minimum", 100, 100},
		{"in range", 1000, 1000},
		{"at maximum", 60000, 60000},
		{"above maximum", 90000, config.MaxPollingInterval},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &config.Config{PollingInterval: tc.interval}
			cfg.Validate()
			assert.Equal(t, tc.want, cfg.PollingInterval)
		})
	}
}

func TestValidateRejectsCPUDeviceOutsideSysfs(t *testing.T) {
	cfg := &config.Config{
		CPUDevice:       "/etc/passwd",
		PollingInterval: config.DefaultPollingInterval,
	}
	cfg.Validate()
	assert.Empty(t, cfg.CPUDevice)
}

func TestValidateRejectsCPUDevicePathTraversal(t *testing.T) {
	cfg := &config.Config{
		CPUDevice:       "/sys/class/hwmon/../../etc/passwd",
		PollingInterval: config.DefaultPollingInterval,
	}
	cfg.Validate()
	assert.Empty(t, cfg.CPUDevice)
}

func TestValidateRejectsMissingCPUDevice(t *testing.T) {
	cfg := &config.Config{
		CPUDevice:       "/sys/class/hwmon/hwmon99/temp999_input",
		PollingInterval: config.DefaultPollingInterval,
	}
	cfg.Validate()
	assert.Empty(t, cfg.CPUDevice)
}
