package util

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestMalformedInputError(t *testing.T) {
	err := NewMalformedInputError("  mtu 9000", []string{"interface Ethernet1"}, "line dedents below the first line; parent context cannot be inferred")

	msg := err.Error()
	if !strings.Contains(msg, "mtu 9000") {
		t.Errorf("Error message should contain the line: %s", msg)
	}
	if !strings.Contains(msg, "interface Ethernet1") {
		t.Errorf("Error message should contain the parent context: %s", msg)
	}

	if !errors.Is(err, ErrMalformedInput) {
		t.Error("MalformedInputError should unwrap to ErrMalformedInput")
	}
}

func TestMalformedInputErrorNoParents(t *testing.T) {
	err := NewMalformedInputError("", nil, "blank configuration line")
	if strings.Contains(err.Error(), "under") {
		t.Errorf("Error message should not mention parents when there are none: %s", err.Error())
	}
}

func TestApplyError(t *testing.T) {
	cause := fmt.Errorf("device rejected %q", "hostname %bad%")
	err := NewApplyError("hostname %bad%", true, cause)

	msg := err.Error()
	if !strings.Contains(msg, "hostname %bad%") {
		t.Errorf("Error message should contain the failed command: %s", msg)
	}
	if !strings.Contains(msg, "rolled back") {
		t.Errorf("Error message should record the rollback: %s", msg)
	}

	if !errors.Is(err, ErrApplyFailed) {
		t.Error("ApplyError should unwrap to ErrApplyFailed")
	}
	if !errors.Is(err, cause) {
		t.Error("ApplyError should unwrap to its cause")
	}
}

func TestApplyErrorNoCause(t *testing.T) {
	err := NewApplyError("commit", false, nil)
	if !errors.Is(err, ErrApplyFailed) {
		t.Error("ApplyError without a cause should still unwrap to ErrApplyFailed")
	}
}

func TestInvalidConfigError(t *testing.T) {
	t.Run("single error", func(t *testing.T) {
		err := NewInvalidConfigError("host is required")
		if !strings.Contains(err.Error(), "host is required") {
			t.Errorf("Error message should contain the error: %s", err.Error())
		}
		if !errors.Is(err, ErrInvalidConfig) {
			t.Error("InvalidConfigError should unwrap to ErrInvalidConfig")
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		err := NewInvalidConfigError("host is required", "port out of range")
		msg := err.Error()
		if !strings.Contains(msg, "host is required") || !strings.Contains(msg, "port out of range") {
			t.Errorf("Error message should contain all errors: %s", msg)
		}
	})
}
