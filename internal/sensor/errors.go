package sensor

import "codeberg.org/mutker/fluxdisplay/internal/errors"

const (
	ErrReadFailed  = errors.ErrorCode("sensor_read_failed")
	ErrParseFailed = errors.ErrorCode("sensor_parse_failed")
	ErrNotFound    = errors.ErrorCode("cpu_sensor_not_found")
)
