package session

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/newtron-network/confsync/pkg/util"
)

// SSHConfig describes how to reach a device's CLI over SSH.
type SSHConfig struct {
	Host     string
	Port     int // 0 means 22
	Username string
	Password string
	Timeout  time.Duration // dial timeout; 0 means 15s

	// RunningCmd fetches the running configuration; defaults to
	// "show running-config".
	RunningCmd string
	// SaveCmd persists running to startup; defaults to
	// "copy running-config startup-config".
	SaveCmd string
	// ReplayApply disables the device's native commit/abort config sessions
	// and applies commands one at a time under a replay transaction with
	// per-command undo. Use for platforms without atomic config sessions.
	ReplayApply bool
	// Undo supplies undo commands for ReplayApply; nil means NegateUndo.
	Undo UndoFunc
}

func (c *SSHConfig) addr() string {
	port := c.Port
	if port == 0 {
		port = 22
	}
	return net.JoinHostPort(c.Host, fmt.Sprintf("%d", port))
}

// execer runs one CLI invocation (a newline-separated script) on the device
// and returns its combined output. Split out so tests can fake the device.
type execer interface {
	exec(ctx context.Context, script string) (string, error)
}

// SSHSession drives a device CLI over SSH. Each operation runs as its own
// exec invocation; transactional apply relies on the device's named config
// sessions surviving across invocations (commit/abort), or on a replay
// transaction when ReplayApply is set.
type SSHSession struct {
	cfg    SSHConfig
	client *ssh.Client
	runner execer
	closed bool
}

// Dial opens an SSH connection to the device described by cfg.
func Dial(cfg SSHConfig) (*SSHSession, error) {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	sshCfg := &ssh.ClientConfig{
		User: cfg.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(cfg.Password),
		},
		// Network devices rarely have stable known_hosts entries in the
		// environments this tool targets; host key pinning belongs to the
		// inventory layer.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         timeout,
	}

	client, err := ssh.Dial("tcp", cfg.addr(), sshCfg)
	if err != nil {
		return nil, fmt.Errorf("SSH dial %s: %w", cfg.addr(), err)
	}

	s := &SSHSession{cfg: cfg, client: client}
	s.runner = &sshExecer{client: client}
	util.Debugf("connected to %s", cfg.addr())
	return s, nil
}

// RunningConfig fetches the running configuration as raw text.
func (s *SSHSession) RunningConfig(ctx context.Context) (string, error) {
	if s.closed {
		return "", util.ErrSessionClosed
	}
	cmd := s.cfg.RunningCmd
	if cmd == "" {
		cmd = "show running-config"
	}
	out, err := s.runner.exec(ctx, cmd)
	if err != nil {
		return "", &Error{Command: cmd, Err: err}
	}
	return out, nil
}

// Execute sends the commands as one transactional batch.
func (s *SSHSession) Execute(ctx context.Context, commands []Command) error {
	if s.closed {
		return util.ErrSessionClosed
	}
	if len(commands) == 0 {
		return nil
	}
	if s.cfg.ReplayApply {
		return NewTransaction(&configRunner{runner: s.runner}, s.cfg.Undo).Apply(ctx, commands)
	}
	return s.executeSession(ctx, commands)
}

// executeSession applies the batch inside a named config session: each
// command is validated in its own exec with its section context re-entered
// first (CLI mode resets between execs), the session is committed only after
// every command is accepted, and aborted on the first rejection.
func (s *SSHSession) executeSession(ctx context.Context, commands []Command) error {
	name := fmt.Sprintf("confsync-%d", time.Now().UnixNano())
	enter := "configure session " + name

	abort := func() {
		// Best effort; the device expires abandoned sessions on its own.
		if _, err := s.runner.exec(ctx, enter+"\nabort"); err != nil {
			util.Warnf("aborting config session %s: %v", name, err)
		}
	}

	for _, cmd := range commands {
		out, err := s.runner.exec(ctx, enter+"\n"+cmd.script()+"\nend")
		if err != nil {
			abort()
			return &Error{Command: cmd.Text, Err: err}
		}
		if msg, rejected := rejection(out); rejected {
			abort()
			return &Error{Command: cmd.Text, Output: msg}
		}
	}

	out, err := s.runner.exec(ctx, enter+"\ncommit\nend")
	if err != nil {
		abort()
		return &Error{Command: "commit", Err: err}
	}
	if msg, rejected := rejection(out); rejected {
		abort()
		return &Error{Command: "commit", Output: msg}
	}
	return nil
}

// Save persists the running configuration to startup storage.
func (s *SSHSession) Save(ctx context.Context) error {
	if s.closed {
		return util.ErrSessionClosed
	}
	cmd := s.cfg.SaveCmd
	if cmd == "" {
		cmd = "copy running-config startup-config"
	}
	out, err := s.runner.exec(ctx, cmd)
	if err != nil {
		return &Error{Command: cmd, Err: err}
	}
	if msg, rejected := rejection(out); rejected {
		return &Error{Command: cmd, Output: msg}
	}
	util.Infof("configuration saved on %s", s.cfg.Host)
	return nil
}

// Close tears down the SSH connection. Safe to call more than once.
func (s *SSHSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.client.Close()
}

// rejection scans CLI output for the "%"-prefixed error marker used by
// line-oriented device CLIs.
func rejection(out string) (string, bool) {
	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "%") {
			return trimmed, true
		}
	}
	return "", false
}

// configRunner adapts the execer to per-command config-mode execution for
// replay transactions.
type configRunner struct {
	runner execer
}

func (r *configRunner) Run(ctx context.Context, command Command) error {
	out, err := r.runner.exec(ctx, "configure terminal\n"+command.script()+"\nend")
	if err != nil {
		return err
	}
	if msg, rejected := rejection(out); rejected {
		return fmt.Errorf("device rejected command: %s", msg)
	}
	return nil
}

// sshExecer runs one script per SSH exec channel.
type sshExecer struct {
	client *ssh.Client
}

func (e *sshExecer) exec(ctx context.Context, script string) (string, error) {
	sess, err := e.client.NewSession()
	if err != nil {
		return "", fmt.Errorf("opening exec channel: %w", err)
	}
	defer sess.Close()

	type result struct {
		out []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := sess.CombinedOutput(script)
		done <- result{out: out, err: err}
	}()

	select {
	case <-ctx.Done():
		sess.Close()
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			return string(r.out), fmt.Errorf("executing on device: %w", r.err)
		}
		return string(r.out), nil
	}
}
