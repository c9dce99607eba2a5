// Package browser clicks inside a Chromium page driven over the DevTools
// protocol. Coordinates are CSS pixels of the page viewport.
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/stigoleg/autoclick/internal/clicker"
)

// DefaultURL is opened when Options.URL is empty.
const DefaultURL = "about:blank"

// Options configures Open.
type Options struct {
	URL      string
	Headless bool
	// Bin overrides the browser executable found by launcher.LookPath.
	Bin    string
	Logger *zap.Logger
}

// Actuator drives the mouse of a single page.
type Actuator struct {
	logger   *zap.Logger
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page

	mu     sync.Mutex
	closed bool
}

// Open launches a browser, opens opts.URL and waits for it to load.
func Open(ctx context.Context, opts Options) (*Actuator, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	url := opts.URL
	if url == "" {
		url = DefaultURL
	}

	bin := opts.Bin
	if bin == "" {
		path, ok := launcher.LookPath()
		if !ok {
			return nil, errors.New("browser: no Chromium executable found")
		}
		bin = path
	}

	l := launcher.New().Context(ctx).Bin(bin).Headless(opts.Headless)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect to browser: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		_ = b.Close()
		l.Kill()
		return nil, fmt.Errorf("open %s: %w", url, err)
	}
	if err := page.Context(ctx).WaitLoad(); err != nil {
		_ = b.Close()
		l.Kill()
		return nil, fmt.Errorf("load %s: %w", url, err)
	}

	logger.Info("browser: page ready", zap.String("url", url), zap.Bool("headless", opts.Headless))
	return &Actuator{logger: logger, launcher: l, browser: b, page: page}, nil
}

func buttonFor(b clicker.Button) (proto.InputMouseButton, error) {
	switch b {
	case clicker.ButtonLeft:
		return proto.InputMouseButtonLeft, nil
	case clicker.ButtonRight:
		return proto.InputMouseButtonRight, nil
	case clicker.ButtonMiddle:
		return proto.InputMouseButtonMiddle, nil
	default:
		return "", fmt.Errorf("browser: unsupported button %v", b)
	}
}

// Click implements clicker.PointerActuator. The release is dispatched even
// when the hold is interrupted.
func (a *Actuator) Click(ctx context.Context, button clicker.Button, pos clicker.Point, hold time.Duration) error {
	btn, err := buttonFor(button)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return errors.New("browser: actuator is closed")
	}

	mouse := a.page.Mouse
	if err := mouse.MoveTo(proto.Point{X: float64(pos.X), Y: float64(pos.Y)}); err != nil {
		return fmt.Errorf("move to %v: %w", pos, err)
	}
	if err := mouse.Down(btn, 1); err != nil {
		return fmt.Errorf("press %v: %w", button, err)
	}

	timer := time.NewTimer(hold)
	select {
	case <-timer.C:
	case <-ctx.Done():
		timer.Stop()
	}

	if err := mouse.Up(btn, 1); err != nil {
		return fmt.Errorf("release %v: %w", button, err)
	}
	return nil
}

// CurrentPosition implements clicker.PointerActuator. It reports the last
// position the page mouse was moved to.
func (a *Actuator) CurrentPosition(context.Context) (clicker.Point, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	p := a.page.Mouse.Position()
	return clicker.Point{X: int(p.X), Y: int(p.Y)}, nil
}

// Page exposes the underlying page, for evaluating scripts in tests and
// diagnostics.
func (a *Actuator) Page() *rod.Page {
	return a.page
}

// Close shuts down the browser. It is safe to call more than once.
func (a *Actuator) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true

	err := a.browser.Close()
	a.launcher.Kill()
	a.launcher.Cleanup()
	a.logger.Debug("browser: closed")
	return err
}
