// Package display speaks the wire protocol of the front-panel temperature
// display: fixed 12-byte frames written to a USB interrupt OUT endpoint.
package display

import "math"

// FrameSize is the length of every frame sent to the display.
const FrameSize = 12

// sentinel is the byte triple the display firmware shows as "no reading".
const sentinel = 238

var frameHeader = [5]byte{85, 170, 1, 1, 6}

// Reading is an optional temperature in degrees Celsius. Absence is the only
// "no data" representation; no range validation is performed.
type Reading struct {
	celsius float64
	valid   bool
}

// Value returns a present reading.
func Value(celsius float64) Reading {
	return Reading{celsius: celsius, valid: true}
}

// None returns an absent reading.
func None() Reading {
	return Reading{}
}

// EncodeFrame maps two optional readings onto the display's frame layout:
// a fixed 5-byte header, three digit bytes per reading, and a trailing
// checksum. The encoding is total; absent readings become the sentinel.
func EncodeFrame(cpu, gpu Reading) [FrameSize]byte {
	var frame [FrameSize]byte
	copy(frame[:], frameHeader[:])
	frame[5], frame[6], frame[7] = encodeTemperature(cpu)
	frame[8], frame[9], frame[10] = encodeTemperature(gpu)
	frame[11] = checksum(frame[:11])

	return frame
}

// encodeTemperature splits a reading into tens, ones and tenths digits, each
// truncated to a byte. Out-of-range values wrap; the firmware has no notion
// of invalid digits beyond the sentinel.
func encodeTemperature(r Reading) (byte, byte, byte) {
	if !r.valid {
		return sentinel, sentinel, sentinel
	}

	tens := byte(int64(r.celsius / 10))
	ones := byte(int64(math.Mod(r.celsius, 10)))
	tenths := byte(int64(math.Mod(r.celsius*10, 10)))

	return tens, ones, tenths
}

// checksum is the unsigned 8-bit wraparound sum of the given bytes.
func checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}

	return sum
}
