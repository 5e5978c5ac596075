package gpu

import (
	"codeberg.org/mutker/fluxdisplay/internal/errors"
	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

const (
	ErrInitFailed            = errors.ErrorCode("gpu_init_failed")
	ErrDeviceNotFound        = errors.ErrorCode("gpu_device_not_found")
	ErrDeviceCountFailed     = errors.ErrorCode("gpu_device_count_failed")
	ErrDriverVersionFailed   = errors.ErrorCode("gpu_driver_version_failed")
	ErrTemperatureReadFailed = errors.ErrorCode("gpu_temperature_read_failed")
	ErrShutdownFailed        = errors.ErrorCode("gpu_shutdown_failed")
)

// nvmlError represents an NVML-specific error
type nvmlError struct {
	ret nvml.Return
}

func (e *nvmlError) Error() string {
	return nvml.ErrorString(e.ret)
}

// newNVMLError creates an error from an NVML return code
func newNVMLError(ret nvml.Return) error {
	if ret == nvml.SUCCESS {
		return nil
	}
	return &nvmlError{ret: ret}
}
