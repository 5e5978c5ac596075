// Package pid guards against concurrent daemon instances. The display's
// USB interface claim is exclusive, so a second instance could never get
// past startup anyway; failing on the PID file gives a clearer message.
package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"syscall"

	"codeberg.org/mutker/fluxdisplay/internal/errors"
)

const pidFile = "fluxdisplay.pid"

// Write writes the current process ID to a PID file.
func Write() error {
	errFactory := errors.New()
	pid := os.Getpid()
	path := filepath.Join(os.TempDir(), pidFile)

	if _, err := os.Stat(path); err == nil {
		// PID file exists, check if that process is still running
		raw, err := os.ReadFile(path)
		if err != nil {
			return errFactory.Wrap(errors.ErrInternal, err)
		}

		oldPID, err := strconv.Atoi(string(raw))
		if err != nil {
			return errFactory.Wrap(errors.ErrInternal, err)
		}

		process, err := os.FindProcess(oldPID)
		if err != nil {
			return errFactory.Wrap(errors.ErrInternal, err)
		}

		if err := process.Signal(syscall.Signal(0)); err == nil {
			return errFactory.New(errors.ErrAlreadyRunning)
		}
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)), 0o600); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Remove removes the PID file.
func Remove() error {
	errFactory := errors.New()
	path := filepath.Join(os.TempDir(), pidFile)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := os.Remove(path); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}
