// Package util provides the shared logger and common error types.
package util

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for reconciliation failures
var (
	ErrNotConnected   = errors.New("device not connected")
	ErrDeviceLocked   = errors.New("device locked by another holder")
	ErrSessionClosed  = errors.New("session closed")
	ErrMalformedInput = errors.New("malformed configuration input")
	ErrApplyFailed    = errors.New("apply failed")
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// MalformedInputError reports a desired configuration line that references a
// parent context that was never declared and cannot be inferred. It is raised
// before any device contact.
type MalformedInputError struct {
	Line    string
	Parents []string
	Reason  string
}

func (e *MalformedInputError) Error() string {
	msg := fmt.Sprintf("malformed input at %q: %s", e.Line, e.Reason)
	if len(e.Parents) > 0 {
		msg += fmt.Sprintf(" (under %s)", strings.Join(e.Parents, " / "))
	}
	return msg
}

func (e *MalformedInputError) Unwrap() error {
	return ErrMalformedInput
}

// NewMalformedInputError creates a malformed input error
func NewMalformedInputError(line string, parents []string, reason string) *MalformedInputError {
	return &MalformedInputError{Line: line, Parents: parents, Reason: reason}
}

// ApplyError is the only error callers of Reconcile see for transport-layer
// failures. It names the command the device rejected and records that the
// batch was rolled back, so device state is unchanged from before the call.
type ApplyError struct {
	Command    string
	RolledBack bool
	Err        error
}

func (e *ApplyError) Error() string {
	msg := "apply failed"
	if e.Command != "" {
		msg += fmt.Sprintf(" at %q", e.Command)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.RolledBack {
		msg += " (rolled back)"
	}
	return msg
}

func (e *ApplyError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrApplyFailed, e.Err}
	}
	return []error{ErrApplyFailed}
}

// NewApplyError creates an apply error for a rejected command
func NewApplyError(command string, rolledBack bool, err error) *ApplyError {
	return &ApplyError{Command: command, RolledBack: rolledBack, Err: err}
}

// InvalidConfigError represents one or more option validation failures
type InvalidConfigError struct {
	Errors []string
}

func (e *InvalidConfigError) Error() string {
	if len(e.Errors) == 1 {
		return "invalid configuration: " + e.Errors[0]
	}
	return fmt.Sprintf("invalid configuration:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

func (e *InvalidConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// NewInvalidConfigError creates an invalid configuration error from messages
func NewInvalidConfigError(messages ...string) *InvalidConfigError {
	return &InvalidConfigError{Errors: messages}
}
