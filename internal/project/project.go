package project

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FallbackName is used when a path has no usable final component.
const FallbackName = "unnamed"

// DefaultLayout opens the user's editor in the project root.
var DefaultLayout = []string{"${EDITOR:-vi} ."}

// NameParams is what a naming policy sees.
type NameParams struct {
	Path     string
	Filename string
}

// LayoutParams is what a layout policy sees.
type LayoutParams struct {
	Path        string
	Filename    string
	SessionName string
}

// Policy lets user configuration override naming and layout.
// A false ok means the entry point is absent or deferred to the
// built-in rule; a non-nil error means it exists and failed.
type Policy interface {
	SessionName(p NameParams) (name string, ok bool, err error)
	Layout(p LayoutParams) (cmds []string, ok bool, err error)
}

// EmptyLayoutError is returned when a policy yields zero commands.
type EmptyLayoutError struct {
	Path string
}

func (e *EmptyLayoutError) Error() string {
	return fmt.Sprintf("layout for %s has no commands", e.Path)
}

// Resolver turns project paths into session names and layouts.
type Resolver struct {
	Policy Policy // nil means built-in rules only

	// HomeDir and HomeSession map the home directory to a fixed name
	// in the fallback branch. Both must be set for it to apply.
	HomeDir     string
	HomeSession string
}

// Name returns the session name for path.
func (r *Resolver) Name(path string) (string, error) {
	filename := Filename(path)
	if r.Policy != nil {
		name, ok, err := r.Policy.SessionName(NameParams{Path: path, Filename: filename})
		if err != nil {
			return "", err
		}
		if ok {
			return name, nil
		}
	}

	if r.HomeSession != "" && r.HomeDir != "" && samePath(path, r.HomeDir) {
		return r.HomeSession, nil
	}
	return SanitizeName(filename), nil
}

// Layout returns the window commands for a new session at path.
func (r *Resolver) Layout(path, sessionName string) ([]string, error) {
	if r.Policy == nil {
		return append([]string(nil), DefaultLayout...), nil
	}

	cmds, ok, err := r.Policy.Layout(LayoutParams{
		Path:        path,
		Filename:    Filename(path),
		SessionName: sessionName,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return append([]string(nil), DefaultLayout...), nil
	}
	if len(cmds) == 0 {
		return nil, &EmptyLayoutError{Path: path}
	}
	return cmds, nil
}

// Filename returns the final component of path, or "" when there is
// none (root, empty, "." or "..").
func Filename(path string) string {
	trimmed := strings.TrimRight(path, string(filepath.Separator))
	if trimmed == "" {
		return ""
	}
	base := filepath.Base(trimmed)
	switch base {
	case ".", "..", string(filepath.Separator):
		return ""
	}
	return base
}

// tmux reads ":" and "." as window/pane separators in targets.
var nameReplacer = strings.NewReplacer(" ", "_", ",", "_", ".", "_", ":", "_")

// SanitizeName makes filename safe as a tmux session target.
func SanitizeName(filename string) string {
	name := nameReplacer.Replace(filename)
	if name == "" {
		return FallbackName
	}
	return name
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}
