// Package session provides the CLI channel to a single device: an interface
// the reconciliation engine drives, an SSH implementation of it, and a
// replay transaction for transports without native atomic config sessions.
package session

import (
	"context"
	"fmt"
	"strings"
)

// Command is one configuration mutation plus the section context it must run
// under. CLI mode does not survive across exec invocations, so the transport
// re-enters the context lines before the mutation as needed. Context lines
// are mode entries, not mutations: rollback never negates them.
type Command struct {
	Text    string
	Context []string
}

// script renders the command as CLI input lines, section entries first.
func (c Command) script() string {
	if len(c.Context) == 0 {
		return c.Text
	}
	return strings.Join(append(append([]string{}, c.Context...), c.Text), "\n")
}

// Session is an exclusively-owned CLI channel to one device for the duration
// of a reconciliation call.
type Session interface {
	// RunningConfig fetches the device's current configuration as raw text.
	RunningConfig(ctx context.Context) (string, error)

	// Execute sends the commands as a single transactional batch, in order.
	// On rejection of any command the whole batch is rolled back and an
	// *Error naming the failed command is returned; no partial state is
	// left behind.
	Execute(ctx context.Context, commands []Command) error

	// Close releases the channel. Safe to call more than once.
	Close() error
}

// Saver is implemented by sessions that can persist the running
// configuration to startup storage.
type Saver interface {
	Save(ctx context.Context) error
}

// Error reports a command the device rejected or a transport failure
// mid-batch.
type Error struct {
	Command string
	Output  string
	Err     error
}

func (e *Error) Error() string {
	msg := "session error"
	if e.Command != "" {
		msg = fmt.Sprintf("device rejected %q", e.Command)
	}
	if e.Output != "" {
		msg += ": " + e.Output
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}
