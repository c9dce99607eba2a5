//go:build !linux && !windows

package platform

import "go.uber.org/zap"

func openNative(*zap.Logger) (Actuator, error) {
	return nil, ErrUnsupported
}

// PreventSleep is a no-op on this system.
func PreventSleep(*zap.Logger) (func() error, error) {
	return func() error { return nil }, nil
}
