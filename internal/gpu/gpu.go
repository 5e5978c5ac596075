// Package gpu discovers which GPU vendor is present and queries its
// temperature. Detection runs once at startup; the selected backend is
// immutable for the process lifetime.
package gpu

import (
	"codeberg.org/mutker/fluxdisplay/internal/logger"
)

// Backend is the single capability a detected GPU exposes.
type Backend interface {
	// Vendor identifies the backend for diagnostics.
	Vendor() string

	// Temperature returns the current GPU temperature in degrees Celsius.
	// ok is false when no reading is available; failures are logged inside
	// the backend and never propagated.
	Temperature() (celsius float64, ok bool)

	// Close releases any resources held by the backend.
	Close() error
}

// Detect probes for a supported GPU in vendor priority order:
// Nvidia, AMD, Intel. When no probe succeeds the returned backend
// always reports an absent temperature.
func Detect() Backend {
	backend, err := probeNvidia()
	if err == nil {
		return backend
	}
	logger.Debug().Err(err).Msg("Nvidia probe failed")

	backend, err = probeAMD()
	if err == nil {
		return backend
	}
	logger.Debug().Err(err).Msg("AMD probe failed")

	backend, err = probeIntel()
	if err == nil {
		return backend
	}
	logger.Debug().Err(err).Msg("Intel probe failed")

	logger.Warn().Msg("No supported GPU found, GPU temperature will not be reported")

	return noGPU{}
}

// noGPU is the backend of last resort. It reports absence so the polling
// loop never has to branch on GPU availability.
type noGPU struct{}

func (noGPU) Vendor() string { return "none" }

func (noGPU) Temperature() (float64, bool) { return 0, false }

func (noGPU) Close() error { return nil }
