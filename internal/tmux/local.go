package tmux

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/simon/tctrl/internal/logger"
)

// LocalExecutor runs tmux commands on the local machine.
type LocalExecutor struct {
	// Bin is the tmux binary. Empty means look it up on $PATH.
	Bin string

	run func(cmd *exec.Cmd) error
	log *slog.Logger
}

// NewLocalExecutor returns an executor for the given tmux binary.
func NewLocalExecutor(bin string) *LocalExecutor {
	return &LocalExecutor{
		Bin: bin,
		log: logger.WithComponent("tmux"),
	}
}

type exitCoder interface {
	ExitCode() int
}

func (l *LocalExecutor) command(op string, args ...string) (*exec.Cmd, error) {
	bin := l.Bin
	if bin == "" {
		var err error
		bin, err = FindTmux()
		if err != nil {
			return nil, &UnavailableError{Op: op, Err: fmt.Errorf("tmux not found: %w", err)}
		}
	}
	if l.log != nil {
		l.log.Debug("tmux", "args", args)
	}
	return exec.Command(bin, args...), nil
}

func (l *LocalExecutor) exec(cmd *exec.Cmd) error {
	if l.run != nil {
		return l.run(cmd)
	}
	return cmd.Run()
}

// runCaptured runs a detached command, folding its stderr into the error.
func (l *LocalExecutor) runCaptured(op string, args ...string) error {
	cmd, err := l.command(op, args...)
	if err != nil {
		return err
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := l.exec(cmd); err != nil {
		return &UnavailableError{Op: op, Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	return nil
}

// HasSession probes for name. A non-zero exit means the session is absent;
// failing to run tmux at all is an error.
func (l *LocalExecutor) HasSession(name string) (bool, error) {
	cmd, err := l.command("has-session", "has-session", "-t", exactTarget(name))
	if err != nil {
		return false, err
	}
	err = l.exec(cmd)
	if err == nil {
		return true, nil
	}
	var exitErr exitCoder
	if errors.As(err, &exitErr) {
		return false, nil
	}
	return false, &UnavailableError{Op: "has-session", Err: err}
}

// CreateSession creates the session and all its windows in one tmux call.
func (l *LocalExecutor) CreateSession(name, dir string, layout []string) error {
	args, err := CreateArgs(name, dir, layout)
	if err != nil {
		return &UnavailableError{Op: "new-session", Err: err}
	}
	if err := l.runCaptured("new-session", args...); err != nil {
		return fmt.Errorf("tmux rejected session setup: %w", err)
	}
	return nil
}

// SwitchClient points an attached client at name.
func (l *LocalExecutor) SwitchClient(name, client string) error {
	return l.runCaptured("switch-client", SwitchArgs(name, client)...)
}

// AttachSession runs tmux attach in the foreground and returns on detach.
func (l *LocalExecutor) AttachSession(name string) error {
	cmd, err := l.command("attach-session", "attach-session", "-t", exactTarget(name))
	if err != nil {
		return err
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = filterTMUX(os.Environ())
	if err := l.exec(cmd); err != nil {
		return &UnavailableError{Op: "attach-session", Err: err}
	}
	return nil
}

// KillSession kills name and every window in it.
func (l *LocalExecutor) KillSession(name string) error {
	return l.runCaptured("kill-session", "kill-session", "-t", exactTarget(name))
}
