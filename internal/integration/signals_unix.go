//go:build !windows

package integration

import (
	"os"
	"syscall"
)

// terminationSignals are the signals autoclick treats as a request to stop.
func terminationSignals() []os.Signal {
	return []os.Signal{
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	}
}
