package tmux

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// UnavailableError means a tmux invocation could not run or exited non-zero.
type UnavailableError struct {
	Op     string
	Stderr string
	Err    error
}

func (e *UnavailableError) Error() string {
	msg := fmt.Sprintf("tmux %s: %v", e.Op, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// FindTmux locates the tmux binary.
func FindTmux() (string, error) {
	return exec.LookPath("tmux")
}

// InsideClient reports whether this process runs inside a tmux client.
// Presence of TMUX counts, even when it is empty.
func InsideClient() bool {
	_, ok := os.LookupEnv("TMUX")
	return ok
}

// exactTarget makes tmux match the session name exactly instead of by prefix.
func exactTarget(name string) string {
	return "=" + name
}

// CreateArgs builds a single tmux invocation that creates session name with
// one window per layout command, all started in dir and all detached.
func CreateArgs(name, dir string, layout []string) ([]string, error) {
	if len(layout) == 0 {
		return nil, fmt.Errorf("session %q: empty layout", name)
	}

	args := []string{"new-session", "-d", "-s", name, "-c", dir, escapeSeparator(layout[0])}
	for _, c := range layout[1:] {
		args = append(args, ";",
			"new-window", "-d", "-t", exactTarget(name)+":", "-c", dir, escapeSeparator(c))
	}
	return args, nil
}

// escapeSeparator keeps tmux from reading a trailing ";" in a shell command
// as its own command separator. tmux strips one backslash before a trailing
// ";", so an already escaped `\;` must become `\\;` to reach the shell intact.
func escapeSeparator(cmd string) string {
	if strings.HasSuffix(cmd, ";") {
		return cmd[:len(cmd)-1] + `\;`
	}
	return cmd
}

// SwitchArgs builds the switch-client invocation. client may be empty.
func SwitchArgs(name, client string) []string {
	args := []string{"switch-client", "-t", exactTarget(name)}
	if client != "" {
		args = append(args, "-c", client)
	}
	return args
}

// filterTMUX removes the TMUX env var so we can attach from within tmux.
func filterTMUX(env []string) []string {
	filtered := make([]string, 0, len(env))
	for _, e := range env {
		if !strings.HasPrefix(e, "TMUX=") {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
