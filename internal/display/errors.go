package display

import "codeberg.org/mutker/fluxdisplay/internal/errors"

const (
	ErrDeviceNotFound   = errors.ErrorCode("usb_device_not_found")
	ErrPermissionDenied = errors.ErrorCode("usb_permission_denied")
	ErrClaimFailed      = errors.ErrorCode("usb_interface_claim_failed")
	ErrEndpointNotFound = errors.ErrorCode("usb_endpoint_not_found")
)
