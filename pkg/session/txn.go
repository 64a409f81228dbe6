package session

import (
	"context"
	"fmt"

	"github.com/newtron-network/confsync/pkg/util"
)

// CommandRunner executes one command, in its section context, against the
// device.
type CommandRunner interface {
	Run(ctx context.Context, command Command) error
}

// UndoFunc returns the commands that reverse one applied command. It is
// vendor-specific; the transaction only guarantees undo steps run in reverse
// apply order.
type UndoFunc func(command Command) []Command

// NegateUndo reverses a command with classic CLI negation: "no X" undoes
// "X", and stripping the prefix undoes "no X". The undo runs in the same
// section context as the command it reverses.
func NegateUndo(command Command) []Command {
	const prefix = "no "
	text := command.Text
	if len(text) > len(prefix) && text[:len(prefix)] == prefix {
		text = text[len(prefix):]
	} else {
		text = prefix + text
	}
	return []Command{{Text: text, Context: command.Context}}
}

type step struct {
	command Command
	undo    []Command
}

// Transaction applies commands one at a time while keeping an ordered log of
// what has been applied plus the undo commands for each. On failure the log
// is replayed in reverse so the device returns to its pre-transaction state.
// Only the commands themselves are logged and undone; their section context
// lines are mode entries and are left untouched by rollback. It exists for
// transports without native commit/abort config sessions.
type Transaction struct {
	runner CommandRunner
	undo   UndoFunc
	steps  []step
}

// NewTransaction creates a transaction over the given runner. A nil undo
// function defaults to NegateUndo.
func NewTransaction(runner CommandRunner, undo UndoFunc) *Transaction {
	if undo == nil {
		undo = NegateUndo
	}
	return &Transaction{runner: runner, undo: undo}
}

// Apply runs the commands in order. On the first failure it rolls back every
// previously applied command and returns an *Error for the failed command.
func (t *Transaction) Apply(ctx context.Context, commands []Command) error {
	for _, cmd := range commands {
		if err := t.runner.Run(ctx, cmd); err != nil {
			util.Warnf("command %q failed, rolling back %d applied command(s)", cmd.Text, len(t.Applied()))
			rbErr := t.Rollback(ctx)
			serr := &Error{Command: cmd.Text, Err: err}
			if rbErr != nil {
				// The device may hold partial state; surface both failures.
				util.Errorf("rollback after %q failed: %v", cmd.Text, rbErr)
				return fmt.Errorf("%w; rollback also failed: %v", serr, rbErr)
			}
			return serr
		}
		t.steps = append(t.steps, step{command: cmd, undo: t.undo(cmd)})
	}
	return nil
}

// Applied returns the commands applied so far, in apply order.
func (t *Transaction) Applied() []Command {
	out := make([]Command, 0, len(t.steps))
	for _, s := range t.steps {
		out = append(out, s.command)
	}
	return out
}

// Rollback undoes every applied command in reverse order and clears the log.
func (t *Transaction) Rollback(ctx context.Context) error {
	for i := len(t.steps) - 1; i >= 0; i-- {
		for _, cmd := range t.steps[i].undo {
			if err := t.runner.Run(ctx, cmd); err != nil {
				return fmt.Errorf("undoing %q: %w", t.steps[i].command.Text, err)
			}
		}
	}
	t.steps = nil
	return nil
}

// ReplaySession adapts a per-command runner into a Session with simulated
// atomicity: each Execute is one Transaction, rolled back on failure.
type ReplaySession struct {
	runner  CommandRunner
	undo    UndoFunc
	fetch   func(ctx context.Context) (string, error)
	closeFn func() error
	closed  bool
}

// NewReplaySession builds a ReplaySession. fetch supplies the running
// configuration; closeFn may be nil.
func NewReplaySession(runner CommandRunner, undo UndoFunc, fetch func(ctx context.Context) (string, error), closeFn func() error) *ReplaySession {
	return &ReplaySession{runner: runner, undo: undo, fetch: fetch, closeFn: closeFn}
}

// RunningConfig fetches the device's current configuration.
func (s *ReplaySession) RunningConfig(ctx context.Context) (string, error) {
	if s.closed {
		return "", util.ErrSessionClosed
	}
	return s.fetch(ctx)
}

// Execute applies the batch under a replay transaction.
func (s *ReplaySession) Execute(ctx context.Context, commands []Command) error {
	if s.closed {
		return util.ErrSessionClosed
	}
	return NewTransaction(s.runner, s.undo).Apply(ctx, commands)
}

// Close releases the underlying channel.
func (s *ReplaySession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.closeFn != nil {
		return s.closeFn()
	}
	return nil
}
