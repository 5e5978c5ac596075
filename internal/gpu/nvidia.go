package gpu

import (
	"codeberg.org/mutker/fluxdisplay/internal/errors"
	"codeberg.org/mutker/fluxdisplay/internal/logger"
	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

// nvidiaGPU queries temperature through NVML. The first device (index 0)
// is used unconditionally; multi-GPU selection is not supported.
type nvidiaGPU struct {
	index int
}

func probeNvidia() (Backend, error) {
	errFactory := errors.New()

	if ret := nvml.Init(); ret != nvml.SUCCESS {
		return nil, errFactory.Wrap(ErrInitFailed, newNVMLError(ret))
	}

	version, ret := nvml.SystemGetDriverVersion()
	if ret != nvml.SUCCESS {
		nvml.Shutdown()
		return nil, errFactory.Wrap(ErrDriverVersionFailed, newNVMLError(ret))
	}

	count, ret := nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		nvml.Shutdown()
		return nil, errFactory.Wrap(ErrDeviceCountFailed, newNVMLError(ret))
	}

	logger.Info().
		Str("driver_version", version).
		Int("devices", count).
		Msg("NVML initialized")

	return &nvidiaGPU{index: 0}, nil
}

func (g *nvidiaGPU) Vendor() string { return "nvidia" }

// Temperature resolves the device handle on every poll; a driver reload
// between polls then degrades to an absent reading rather than a stale handle.
func (g *nvidiaGPU) Temperature() (float64, bool) {
	device, ret := nvml.DeviceGetHandleByIndex(g.index)
	if ret != nvml.SUCCESS {
		handleErr := errors.New().Wrap(ErrDeviceNotFound, newNVMLError(ret))
		logger.Warn().Err(handleErr).Msg("Failed to get Nvidia device handle")
		return 0, false
	}

	temp, ret := device.GetTemperature(nvml.TEMPERATURE_GPU)
	if ret != nvml.SUCCESS {
		readErr := errors.New().Wrap(ErrTemperatureReadFailed, newNVMLError(ret))
		logger.Warn().Err(readErr).Msg("Failed to read Nvidia GPU temperature")
		return 0, false
	}

	return float64(temp), true
}

func (g *nvidiaGPU) Close() error {
	if ret := nvml.Shutdown(); ret != nvml.SUCCESS {
		return errors.New().Wrap(ErrShutdownFailed, newNVMLError(ret))
	}

	return nil
}
