// Package sensor reads kernel-exposed temperature sensors. hwmon and
// thermal-zone files hold a single integer in millidegrees Celsius.
package sensor

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"codeberg.org/mutker/fluxdisplay/internal/errors"
	"codeberg.org/mutker/fluxdisplay/internal/logger"
)

const (
	hwmonClass   = "/sys/class/hwmon"
	thermalZone0 = "/sys/class/thermal/thermal_zone0/temp"

	// Tctl is the die temperature control label AMD CPUs expose
	cpuSensorLabel = "Tctl"

	milliDegrees = 1000.0
)

// Read returns the value of a sysfs sensor file in degrees Celsius.
func Read(path string) (float64, error) {
	errFactory := errors.New()

	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, errFactory.Wrap(ErrReadFailed, err)
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if err != nil {
		return 0, errFactory.Wrap(ErrParseFailed, err)
	}

	return value / milliDegrees, nil
}

// DefaultCPUDevice discovers a plausible CPU temperature sensor path when no
// explicit override is configured. Labelled hwmon devices are preferred over
// the generic thermal-zone and hwmon0 fallbacks.
func DefaultCPUDevice() (string, error) {
	return findCPUDevice(hwmonClass, thermalZone0)
}

func findCPUDevice(hwmonDir, thermalPath string) (string, error) {
	errFactory := errors.New()

	if entries, err := os.ReadDir(hwmonDir); err == nil {
		for _, entry := range entries {
			devicePath := filepath.Join(hwmonDir, entry.Name())
			label, err := os.ReadFile(filepath.Join(devicePath, "temp1_label"))
			if err != nil {
				continue
			}
			if strings.TrimSpace(string(label)) == cpuSensorLabel {
				path := filepath.Join(devicePath, "temp1_input")
				logger.Debug().Str("path", path).Msg("Found Tctl CPU sensor")
				return path, nil
			}
		}
	}

	if _, err := os.ReadFile(thermalPath); err == nil {
		return thermalPath, nil
	}

	fallback := filepath.Join(hwmonDir, "hwmon0", "temp1_input")
	if _, err := os.ReadFile(fallback); err == nil {
		return fallback, nil
	}

	return "", errFactory.New(ErrNotFound)
}
