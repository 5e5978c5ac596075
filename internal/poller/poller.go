// Package poller drives the poll/encode/transmit cadence of the display.
package poller

import (
	"context"
	"time"

	"codeberg.org/mutker/fluxdisplay/internal/display"
)

// Transmitter is the single operation the poller needs from the device
// session.
type Transmitter interface {
	Transmit(frame [display.FrameSize]byte)
}

// Source produces one optional temperature reading per poll.
type Source func() display.Reading

// Poller owns the polling cadence. Run is single-threaded; the context is
// the only state shared with the signal handler.
type Poller struct {
	device   Transmitter
	cpu      Source
	gpu      Source
	interval time.Duration
}

func New(device Transmitter, cpu, gpu Source, interval time.Duration) *Poller {
	return &Poller{device: device, cpu: cpu, gpu: gpu, interval: interval}
}

// Run polls and transmits until ctx is cancelled. Cancellation is observed
// at the top of every cycle, so at most one poll/transmit cycle runs after
// it, even when a slow transmit leaves a tick pending. On exit one final
// frame with both readings forced to zero is sent so the display goes dark
// instead of freezing on the last values.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

loop:
	for {
		// cancellation wins over a pending tick
		select {
		case <-ctx.Done():
			break loop
		default:
		}

		p.device.Transmit(display.EncodeFrame(p.cpu(), p.gpu()))

		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
		}
	}

	p.device.Transmit(display.EncodeFrame(display.Value(0), display.Value(0)))
}
