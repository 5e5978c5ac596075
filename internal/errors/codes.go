package errors

// Common error codes
const (
	// System errors
	ErrInternal       ErrorCode = "internal_error"
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"
	ErrAlreadyRunning ErrorCode = "already_running"

	// Configuration errors
	ErrInvalidConfig ErrorCode = "invalid_configuration"
	ErrReadConfig    ErrorCode = "read_config_failed"
	ErrBindFlags     ErrorCode = "bind_flags_failed"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:       "Internal error occurred",
	ErrInitFailed:     "Initialization failed",
	ErrShutdownFailed: "Shutdown failed",
	ErrAlreadyRunning: "Another instance is already running",
	ErrInvalidConfig:  "Invalid configuration",
	ErrReadConfig:     "Failed to read configuration",
	ErrBindFlags:      "Failed to bind flags",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
