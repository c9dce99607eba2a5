//go:build linux

package platform

import (
	"go.uber.org/zap"

	"github.com/stigoleg/autoclick/internal/platform/linux"
)

func openNative(logger *zap.Logger) (Actuator, error) {
	x, err := linux.NewXdotool(logger)
	if err != nil {
		return nil, err
	}
	logger.Info("platform: using xdotool", zap.String("display_server", linux.DetectDisplayServer()))
	return x, nil
}

// PreventSleep is a no-op on Linux; the clicks themselves count as input.
func PreventSleep(*zap.Logger) (func() error, error) {
	return func() error { return nil }, nil
}
