//go:build windows

package platform

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"

	"github.com/stigoleg/autoclick/internal/clicker"
)

const (
	esSystemRequired  = 0x00000001
	esDisplayRequired = 0x00000002
	esContinuous      = 0x80000000

	mouseeventfLeftDown   = 0x0002
	mouseeventfLeftUp     = 0x0004
	mouseeventfRightDown  = 0x0008
	mouseeventfRightUp    = 0x0010
	mouseeventfMiddleDown = 0x0020
	mouseeventfMiddleUp   = 0x0040
)

var (
	modkernel32                 = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadExecutionState = modkernel32.NewProc("SetThreadExecutionState")

	moduser32        = windows.NewLazySystemDLL("user32.dll")
	procSetCursorPos = moduser32.NewProc("SetCursorPos")
	procGetCursorPos = moduser32.NewProc("GetCursorPos")
	procMouseEvent   = moduser32.NewProc("mouse_event")
)

// user32Actuator injects clicks with SetCursorPos and mouse_event.
type user32Actuator struct {
	mu     sync.Mutex
	logger *zap.Logger
}

func openNative(logger *zap.Logger) (Actuator, error) {
	if err := moduser32.Load(); err != nil {
		return nil, fmt.Errorf("load user32.dll: %w", err)
	}
	return &user32Actuator{logger: logger}, nil
}

func buttonFlags(b clicker.Button) (down, up uintptr, err error) {
	switch b {
	case clicker.ButtonLeft:
		return mouseeventfLeftDown, mouseeventfLeftUp, nil
	case clicker.ButtonRight:
		return mouseeventfRightDown, mouseeventfRightUp, nil
	case clicker.ButtonMiddle:
		return mouseeventfMiddleDown, mouseeventfMiddleUp, nil
	default:
		return 0, 0, fmt.Errorf("windows: unsupported button %v", b)
	}
}

// Click implements clicker.PointerActuator. The release is sent even when
// the hold is cut short.
func (a *user32Actuator) Click(ctx context.Context, button clicker.Button, pos clicker.Point, hold time.Duration) error {
	down, up, err := buttonFlags(button)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if r, _, err := procSetCursorPos.Call(uintptr(pos.X), uintptr(pos.Y)); r == 0 {
		return fmt.Errorf("SetCursorPos: %w", err)
	}
	procMouseEvent.Call(down, 0, 0, 0, 0)
	defer procMouseEvent.Call(up, 0, 0, 0, 0)

	timer := time.NewTimer(hold)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		a.logger.Warn("windows: hold interrupted", zap.Error(ctx.Err()))
	}
	return nil
}

// CurrentPosition implements clicker.PointerActuator.
func (a *user32Actuator) CurrentPosition(context.Context) (clicker.Point, error) {
	var pt struct{ X, Y int32 }
	if r, _, err := procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt))); r == 0 {
		return clicker.Point{}, fmt.Errorf("GetCursorPos: %w", err)
	}
	return clicker.Point{X: int(pt.X), Y: int(pt.Y)}, nil
}

func (a *user32Actuator) Close() error {
	return nil
}

// PreventSleep keeps the system and display awake until the returned
// function is called.
func PreventSleep(logger *zap.Logger) (func() error, error) {
	r, _, err := procSetThreadExecutionState.Call(uintptr(esContinuous | esSystemRequired | esDisplayRequired))
	if r == 0 {
		return nil, fmt.Errorf("SetThreadExecutionState: %w", err)
	}
	logger.Debug("windows: sleep prevention enabled")
	return func() error {
		if r, _, err := procSetThreadExecutionState.Call(uintptr(esContinuous)); r == 0 {
			return fmt.Errorf("SetThreadExecutionState: %w", err)
		}
		return nil
	}, nil
}
