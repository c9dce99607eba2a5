// Package lifecycle releases process resources (actuators, controllers, log
// sinks) on exit.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds Execute when no timeout is given.
const DefaultTimeout = 5 * time.Second

// ErrTimeout is reported when resources are still being released when the
// timeout expires.
var ErrTimeout = errors.New("cleanup timeout exceeded")

// Resource is something that must be released before the process exits.
type Resource interface {
	Cleanup() error
	Name() string
}

type funcResource struct {
	name string
	fn   func() error
}

func (f funcResource) Cleanup() error { return f.fn() }
func (f funcResource) Name() string   { return f.name }

// Manager runs registered cleanups once, newest first, within a timeout.
type Manager struct {
	mu        sync.Mutex
	resources []Resource
	timeout   time.Duration
	logger    *zap.Logger
	once      sync.Once
	errs      []error
}

// NewManager creates a Manager. A nil logger disables logging.
func NewManager(timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{timeout: timeout, logger: logger}
}

// Register adds a resource.
func (m *Manager) Register(r Resource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources = append(m.resources, r)
}

// RegisterFunc adds a named cleanup function.
func (m *Manager) RegisterFunc(name string, fn func() error) {
	m.Register(funcResource{name: name, fn: fn})
}

// Len returns the number of registered resources.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.resources)
}

// Execute releases every resource in reverse registration order. Only the
// first call does any work; later calls return the same errors.
func (m *Manager) Execute() []error {
	m.once.Do(func() {
		m.errs = m.execute()
	})
	return m.errs
}

func (m *Manager) execute() []error {
	m.mu.Lock()
	resources := make([]Resource, len(m.resources))
	copy(resources, m.resources)
	m.mu.Unlock()

	if len(resources) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	var (
		mu   sync.Mutex
		errs []error
	)
	fail := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := len(resources) - 1; i >= 0; i-- {
			m.release(resources[i], fail)
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		m.logger.Warn("cleanup: timeout, some resources may not have been released",
			zap.Duration("timeout", m.timeout))
		fail(ErrTimeout)
	}

	mu.Lock()
	defer mu.Unlock()
	return append([]error(nil), errs...)
}

func (m *Manager) release(r Resource, fail func(error)) {
	name := r.Name()
	defer func() {
		if p := recover(); p != nil {
			m.logger.Error("cleanup: panic", zap.String("resource", name), zap.Any("panic", p))
			fail(fmt.Errorf("%s: panic during cleanup: %v", name, p))
		}
	}()

	if err := r.Cleanup(); err != nil {
		m.logger.Warn("cleanup: failed", zap.String("resource", name), zap.Error(err))
		fail(fmt.Errorf("%s: %w", name, err))
		return
	}
	m.logger.Debug("cleanup: released", zap.String("resource", name))
}

// Clear forgets every registered resource without releasing it.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources = m.resources[:0]
}
