package display

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/mutker/fluxdisplay/internal/errors"
	"codeberg.org/mutker/fluxdisplay/internal/logger"
	"github.com/google/gousb"
)

// VendorID and ProductID identify the display on the USB bus.
const (
	VendorID  gousb.ID = 0x2022
	ProductID gousb.ID = 0x0522
)

const (
	configNum    = 1
	interfaceNum = 0
	altSetting   = 0

	// fallbackEndpoint is used when the descriptor declares no interrupt
	// OUT endpoint. Known display firmware puts it at 0x03.
	fallbackEndpoint = 3

	writeTimeout = 1000 * time.Millisecond
)

// Device owns the USB session with the display. The interface claim and the
// OUT endpoint are resolved once at open time and reused for every
// transmission; the configuration descriptor is immutable for the session.
type Device struct {
	ctx  *gousb.Context
	dev  *gousb.Device
	cfg  *gousb.Config
	intf *gousb.Interface
	out  *gousb.OutEndpoint
}

// Open locates the display by vendor/product pair, claims interface 0 and
// resolves the interrupt OUT endpoint. All returned errors are fatal to
// startup: without an open, claimed device there is nothing to write to.
func Open(vendor, product gousb.ID) (*Device, error) {
	errFactory := errors.New()

	ctx := gousb.NewContext()

	dev, err := ctx.OpenDeviceWithVIDPID(vendor, product)
	if err != nil {
		// The descriptor matched during enumeration but the handle could
		// not be opened: an access problem, not a missing device.
		ctx.Close()
		return nil, errFactory.Wrap(ErrPermissionDenied, err).WithMessage(fmt.Sprintf(
			"permission denied opening USB device %s:%s, check udev rules", vendor, product))
	}
	if dev == nil {
		ctx.Close()
		return nil, errFactory.WithMessage(ErrDeviceNotFound, fmt.Sprintf(
			"USB device %s:%s not found, is the display connected?", vendor, product))
	}

	// Have libusb detach a bound kernel driver when claiming. Best effort,
	// some platforms never attach one.
	if err := dev.SetAutoDetach(true); err != nil {
		logger.Debug().Err(err).Msg("Failed to enable kernel driver auto-detach")
	}

	cfg, err := dev.Config(configNum)
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, errFactory.Wrap(ErrClaimFailed, err)
	}

	intf, err := cfg.Interface(interfaceNum, altSetting)
	if err != nil {
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, errFactory.Wrap(ErrClaimFailed, err)
	}

	epNum, found := findInterruptOut(intf.Setting)
	if !found {
		logger.Warn().Int("endpoint", fallbackEndpoint).
			Msg("No interrupt OUT endpoint in descriptor, using fallback")
		epNum = fallbackEndpoint
	}

	out, err := intf.OutEndpoint(epNum)
	if err != nil {
		intf.Close()
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, errFactory.Wrap(ErrEndpointNotFound, err)
	}

	logger.Info().
		Str("endpoint", fmt.Sprintf("0x%02x", uint8(out.Desc.Address))).
		Msg("USB display opened")

	return &Device{ctx: ctx, dev: dev, cfg: cfg, intf: intf, out: out}, nil
}

// findInterruptOut returns the number of the interrupt OUT endpoint declared
// by the claimed interface setting. The lowest-numbered match wins.
func findInterruptOut(setting gousb.InterfaceSetting) (int, bool) {
	num := -1
	for _, ep := range setting.Endpoints {
		if ep.Direction != gousb.EndpointDirectionOut || ep.TransferType != gousb.TransferTypeInterrupt {
			continue
		}
		if num < 0 || ep.Number < num {
			num = ep.Number
		}
	}
	if num < 0 {
		return 0, false
	}

	return num, true
}

// Transmit writes a frame to the display with a bounded wait. A failed write
// is logged and swallowed; the next poll cycle retries naturally.
func (d *Device) Transmit(frame [FrameSize]byte) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if _, err := d.out.WriteContext(ctx, frame[:]); err != nil {
		logger.Warn().Err(err).Msg("Failed to write frame to display")
	}
}

// Close releases the interface claim and the underlying handles.
func (d *Device) Close() {
	d.intf.Close()
	if err := d.cfg.Close(); err != nil {
		logger.Debug().Err(err).Msg("Failed to release USB configuration")
	}
	if err := d.dev.Close(); err != nil {
		logger.Debug().Err(err).Msg("Failed to close USB device")
	}
	if err := d.ctx.Close(); err != nil {
		logger.Debug().Err(err).Msg("Failed to close USB context")
	}
}
