//go:build windows

package integration

import "os"

// terminationSignals is empty: os.Process.Signal cannot deliver an
// interrupt to another process on Windows.
func terminationSignals() []os.Signal {
	return nil
}
