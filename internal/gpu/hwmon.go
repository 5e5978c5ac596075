package gpu

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/mutker/fluxdisplay/internal/errors"
	"codeberg.org/mutker/fluxdisplay/internal/logger"
	"codeberg.org/mutker/fluxdisplay/internal/sensor"
)

const (
	hwmonClass = "/sys/class/hwmon"
	drmClass   = "/sys/class/drm"
)

var (
	amdDrivers   = []string{"amdgpu"}
	intelDrivers = []string{"i915", "xe"}
)

// hwmonGPU reads a vendor GPU temperature from a sysfs hwmon file located
// once at probe time.
type hwmonGPU struct {
	vendor string
	path   string
}

func probeAMD() (Backend, error) {
	return probeHwmon("amd", amdDrivers)
}

func probeIntel() (Backend, error) {
	return probeHwmon("intel", intelDrivers)
}

func probeHwmon(vendor string, drivers []string) (Backend, error) {
	path, err := findHwmonDevice(hwmonClass, drmClass, drivers)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("vendor", vendor).Str("path", path).Msg("Found GPU hwmon sensor")

	return &hwmonGPU{vendor: vendor, path: path}, nil
}

func (g *hwmonGPU) Vendor() string { return g.vendor }

func (g *hwmonGPU) Temperature() (float64, bool) {
	value, err := sensor.Read(g.path)
	if err != nil {
		readErr := errors.New().Wrap(ErrTemperatureReadFailed, err)
		logger.Warn().Err(readErr).Str("path", g.path).Msg("Failed to read GPU temperature")
		return 0, false
	}

	return value, true
}

func (g *hwmonGPU) Close() error { return nil }

// findHwmonDevice searches for a temp1_input belonging to one of the given
// drivers. The named-hwmon scan trusts the declared name; the DRM fallback
// additionally verifies the driver symlink, since direct-name hwmon entries
// are not guaranteed on all kernel/driver versions.
func findHwmonDevice(hwmonDir, drmDir string, drivers []string) (string, error) {
	errFactory := errors.New()

	if entries, err := os.ReadDir(hwmonDir); err == nil {
		for _, entry := range entries {
			devicePath := filepath.Join(hwmonDir, entry.Name())
			name, err := os.ReadFile(filepath.Join(devicePath, "name"))
			if err != nil {
				continue
			}
			if !matchesDriverName(strings.TrimSpace(string(name)), drivers) {
				continue
			}
			tempPath := filepath.Join(devicePath, "temp1_input")
			if _, err := os.Stat(tempPath); err == nil {
				return tempPath, nil
			}
		}
	}

	if entries, err := os.ReadDir(drmDir); err == nil {
		for _, entry := range entries {
			cardPath := filepath.Join(drmDir, entry.Name())
			hwmonRoot := filepath.Join(cardPath, "device", "hwmon")
			hwmonEntries, err := os.ReadDir(hwmonRoot)
			if err != nil {
				continue
			}
			for _, hwmonEntry := range hwmonEntries {
				tempPath := filepath.Join(hwmonRoot, hwmonEntry.Name(), "temp1_input")
				if _, err := os.Stat(tempPath); err != nil {
					continue
				}
				driverLink, err := os.Readlink(filepath.Join(cardPath, "device", "driver"))
				if err != nil {
					continue
				}
				if matchesDriverLink(driverLink, drivers) {
					return tempPath, nil
				}
			}
		}
	}

	return "", errFactory.WithMessage(ErrDeviceNotFound,
		fmt.Sprintf("no %s hwmon device found", strings.Join(drivers, "/")))
}

func matchesDriverName(name string, drivers []string) bool {
	for _, driver := range drivers {
		if name == driver {
			return true
		}
	}

	return false
}

func matchesDriverLink(link string, drivers []string) bool {
	for _, driver := range drivers {
		if strings.Contains(link, driver) {
			return true
		}
	}

	return false
}
