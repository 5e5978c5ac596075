package sensor

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/fluxdisplay/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestRead(t *testing.T) {
	tempDir := t.TempDir()

	path := filepath.Join(tempDir, "temp1_input")
	writeFile(t, path, "48625\n")

	value, err := Read(path)
	require.NoError(t, err)
	assert.InDelta(t, 48.625, value, 0.001)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "temp1_input"))
	require.Error(t, err)
	assert.Equal(t, ErrReadFailed, errors.CodeOf(err))
}

func TestReadUnparseable(t *testing.T) {
	tempDir := t.TempDir()

	path := filepath.Join(tempDir, "temp1_input")
	writeFile(t, path, "not a number\n")

	_, err := Read(path)
	require.Error(t, err)
	assert.Equal(t, ErrParseFailed, errors.CodeOf(err))
}

func TestFindCPUDevicePrefersTctl(t *testing.T) {
	tempDir := t.TempDir()
	hwmonDir := filepath.Join(tempDir, "hwmon")
	thermalPath := filepath.Join(tempDir, "thermal_zone0", "temp")

	// hwmon0 has a readable input but the wrong label
	writeFile(t, filepath.Join(hwmonDir, "hwmon0", "temp1_label"), "edge\n")
	writeFile(t, filepath.Join(hwmonDir, "hwmon0", "temp1_input"), "41000\n")
	// hwmon1 is the CPU die sensor
	writeFile(t, filepath.Join(hwmonDir, "hwmon1", "temp1_label"), "Tctl\n")
	writeFile(t, filepath.Join(hwmonDir, "hwmon1", "temp1_input"), "52000\n")
	writeFile(t, thermalPath, "47000\n")

	path, err := findCPUDevice(hwmonDir, thermalPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(hwmonDir, "hwmon1", "temp1_input"), path)
}

func TestFindCPUDeviceThermalZoneFallback(t *testing.T) {
	tempDir := t.TempDir()
	hwmonDir := filepath.Join(tempDir, "hwmon")
	thermalPath := filepath.Join(tempDir, "thermal_zone0", "temp")

	require.NoError(t, os.MkdirAll(hwmonDir, 0o755))
	writeFile(t, thermalPath, "47000\n")

	path, err := findCPUDevice(hwmonDir, thermalPath)
	require.NoError(t, err)
	assert.Equal(t, thermalPath, path)
}

func TestFindCPUDeviceHwmon0Fallback(t *testing.T) {
	tempDir := t.TempDir()
	hwmonDir := filepath.Join(tempDir, "hwmon")
	thermalPath := filepath.Join(tempDir, "thermal_zone0", "temp")

	// no label at all, so the Tctl scan skips it
	writeFile(t, filepath.Join(hwmonDir, "hwmon0", "temp1_input"), "39000\n")

	path, err := findCPUDevice(hwmonDir, thermalPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(hwmonDir, "hwmon0", "temp1_input"), path)
}

func TestFindCPUDeviceNotFound(t *testing.T) {
	tempDir := t.TempDir()

	_, err := findCPUDevice(filepath.Join(tempDir, "hwmon"), filepath.Join(tempDir, "thermal_zone0", "temp"))
	require.Error(t, err)
	assert.Equal(t, ErrNotFound, errors.CodeOf(err))
}
