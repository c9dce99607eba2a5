package clicker

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyRunning is returned when a run is started while another one
	// is active on the same controller.
	ErrAlreadyRunning = errors.New("clicker: run already in progress")

	// ErrEmptySequence is returned when a sequence run is started without
	// actions.
	ErrEmptySequence = errors.New("clicker: sequence is empty")

	// ErrSequenceLocked is returned when a sequence is edited while a run
	// holds it.
	ErrSequenceLocked = errors.New("clicker: sequence is in use by an active run")

	// ErrIndexOutOfRange is returned for sequence edits with a bad index.
	ErrIndexOutOfRange = errors.New("clicker: sequence index out of range")

	// ErrNilActuator is returned when a controller is built without an actuator.
	ErrNilActuator = errors.New("clicker: actuator is required")
)

// ConfigError reports settings that prevent a run from starting.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid setting %s: %s", e.Field, e.Reason)
}
