//go:build linux

package linux

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/stigoleg/autoclick/internal/clicker"
)

// ErrWayland is returned when the session runs on Wayland, where xdotool
// cannot inject input into native windows.
var ErrWayland = errors.New("linux: xdotool does not work on Wayland sessions")

// MissingToolError reports an external tool that is not installed.
type MissingToolError struct {
	Tool    string
	Install string
}

func (e *MissingToolError) Error() string {
	if e.Install == "" {
		return fmt.Sprintf("linux: %s not found in PATH", e.Tool)
	}
	return fmt.Sprintf("linux: %s not found in PATH (install with: %s)", e.Tool, e.Install)
}

// Xdotool clicks through the xdotool command on X11.
type Xdotool struct {
	run    runner
	logger *zap.Logger
}

// NewXdotool checks that xdotool can be used on this session.
func NewXdotool(logger *zap.Logger) (*Xdotool, error) {
	if !hasCommand("xdotool") {
		return nil, &MissingToolError{Tool: "xdotool", Install: InstallCommand("xdotool", DetectDistribution())}
	}
	if DetectDisplayServer() == DisplayServerWayland {
		return nil, ErrWayland
	}
	return newXdotool(runVerbose, logger), nil
}

func newXdotool(run runner, logger *zap.Logger) *Xdotool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Xdotool{run: run, logger: logger}
}

func buttonNumber(b clicker.Button) (string, error) {
	switch b {
	case clicker.ButtonLeft:
		return "1", nil
	case clicker.ButtonMiddle:
		return "2", nil
	case clicker.ButtonRight:
		return "3", nil
	default:
		return "", fmt.Errorf("linux: unsupported button %v", b)
	}
}

// clickArgs chains move, press, hold and release into one xdotool call so
// the release always follows the press. The "--" keeps negative coordinates
// on multi-monitor layouts from being read as options.
func clickArgs(button clicker.Button, pos clicker.Point, hold time.Duration) ([]string, error) {
	n, err := buttonNumber(button)
	if err != nil {
		return nil, err
	}
	return []string{
		"mousemove", "--", strconv.Itoa(pos.X), strconv.Itoa(pos.Y),
		"mousedown", n,
		"sleep", strconv.FormatFloat(hold.Seconds(), 'f', 3, 64),
		"mouseup", n,
	}, nil
}

// Click implements clicker.PointerActuator.
func (x *Xdotool) Click(ctx context.Context, button clicker.Button, pos clicker.Point, hold time.Duration) error {
	args, err := clickArgs(button, pos, hold)
	if err != nil {
		return err
	}
	if out, err := x.run(ctx, "xdotool", args...); err != nil {
		x.logger.Warn("linux: xdotool click failed", zap.Error(err), zap.String("output", out))
		return fmt.Errorf("xdotool click: %w", err)
	}
	return nil
}

// CurrentPosition implements clicker.PointerActuator.
func (x *Xdotool) CurrentPosition(ctx context.Context) (clicker.Point, error) {
	out, err := x.run(ctx, "xdotool", "getmouselocation", "--shell")
	if err != nil {
		return clicker.Point{}, fmt.Errorf("xdotool getmouselocation: %w", err)
	}
	return parseLocation(out)
}

// parseLocation reads the X= and Y= lines of getmouselocation --shell.
func parseLocation(out string) (clicker.Point, error) {
	var (
		p            clicker.Point
		seenX, seenY bool
	)
	for _, line := range strings.Split(out, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(value)
		switch key {
		case "X":
			if err != nil {
				return clicker.Point{}, fmt.Errorf("failed to parse X from %q: %w", line, err)
			}
			p.X, seenX = n, true
		case "Y":
			if err != nil {
				return clicker.Point{}, fmt.Errorf("failed to parse Y from %q: %w", line, err)
			}
			p.Y, seenY = n, true
		}
	}
	if !seenX || !seenY {
		return clicker.Point{}, fmt.Errorf("unexpected getmouselocation output %q", out)
	}
	return p, nil
}

// Close implements platform.Actuator. xdotool holds no resources.
func (x *Xdotool) Close() error {
	return nil
}
