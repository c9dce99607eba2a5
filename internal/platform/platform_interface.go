// Package platform opens the pointer actuator that performs clicks for a run.
package platform

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/stigoleg/autoclick/internal/clicker"
	"github.com/stigoleg/autoclick/internal/platform/browser"
)

// ErrUnsupported is returned when no native actuator exists for this OS.
var ErrUnsupported = errors.New("platform: native pointer input is not supported on this system")

// Actuator is a clicker.PointerActuator that holds releasable resources.
type Actuator interface {
	clicker.PointerActuator
	Close() error
}

// Backend selects an Actuator implementation.
type Backend string

const (
	BackendNative  Backend = "native"
	BackendDryRun  Backend = "dryrun"
	BackendBrowser Backend = "browser"
)

// Backends lists the accepted backend names.
func Backends() []string {
	return []string{string(BackendNative), string(BackendDryRun), string(BackendBrowser)}
}

// ParseBackend validates a backend name. An empty name selects the native
// backend.
func ParseBackend(s string) (Backend, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "" || s == "auto":
		return BackendNative, nil
	case slices.Contains(Backends(), s):
		return Backend(s), nil
	default:
		return "", fmt.Errorf("unknown backend %q (want one of %s)", s, strings.Join(Backends(), ", "))
	}
}

// Options configures Open.
type Options struct {
	Backend Backend
	// URL is the page the browser backend opens.
	URL string
	// ShowBrowser runs the browser backend with a visible window.
	ShowBrowser bool
	Logger      *zap.Logger
}

// Open creates the actuator for opts.Backend.
func Open(ctx context.Context, opts Options) (Actuator, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	switch opts.Backend {
	case BackendDryRun:
		return NewDryRun(logger, clicker.Point{}), nil
	case BackendBrowser:
		return browser.Open(ctx, browser.Options{
			URL:      opts.URL,
			Headless: !opts.ShowBrowser,
			Logger:   logger,
		})
	case BackendNative, "":
		return openNative(logger)
	default:
		return nil, fmt.Errorf("unknown backend %q", opts.Backend)
	}
}
