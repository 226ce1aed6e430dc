// Package launch reconciles a project with its tmux session: it creates the
// session when it is missing and then attaches or switches the client to it.
//
// Each Open is a single sequential pass with no retries and no locking.
// tmux alone decides session-name uniqueness, and an Open interrupted during
// creation can leave a partially built session behind.
package launch

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/simon/tctrl/internal/logger"
	"github.com/simon/tctrl/internal/project"
	"github.com/simon/tctrl/internal/tmux"
)

// Stage names a step of the Open pipeline.
type Stage string

const (
	StagePath   Stage = "path"
	StageName   Stage = "name"
	StageProbe  Stage = "probe"
	StageLayout Stage = "layout"
	StageCreate Stage = "create"
	StageAttach Stage = "attach"
)

// StageError records which step of Open failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// InvalidPathError means a path cannot be handed to tmux as a string.
type InvalidPathError struct {
	Path string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q", e.Path)
}

// History receives every project path that was opened.
type History interface {
	Record(path string) error
}

// Request describes one Open call.
type Request struct {
	Path   string
	Client string // explicit tmux client; forces switch-client
	Name   string // overrides name resolution when set
}

// Result reports what Open did.
type Result struct {
	Session  string
	Created  bool
	Switched bool
}

// Launcher runs the Open pipeline.
type Launcher struct {
	Mux      tmux.Multiplexer
	Resolver *project.Resolver

	// InsideClient is read once by the caller, normally from $TMUX.
	InsideClient bool

	History History // optional
	Log     *slog.Logger
}

// Open resolves the session for req.Path, creates it if tmux does not know
// it yet and brings it to the foreground.
func (l *Launcher) Open(req Request) (Result, error) {
	log := l.Log
	if log == nil {
		log = logger.WithComponent("launch")
	}
	log = log.With("run", uuid.NewString(), "path", req.Path)

	if err := validatePath(req.Path); err != nil {
		return Result{}, &StageError{Stage: StagePath, Err: err}
	}

	name := req.Name
	if name == "" {
		var err error
		name, err = l.Resolver.Name(req.Path)
		if err != nil {
			return Result{}, &StageError{Stage: StageName, Err: err}
		}
	}
	res := Result{Session: name}
	log = log.With("session", name)

	exists, err := l.Mux.HasSession(name)
	if err != nil {
		return res, &StageError{Stage: StageProbe, Err: err}
	}

	if !exists {
		layout, err := l.Resolver.Layout(req.Path, name)
		if err != nil {
			return res, &StageError{Stage: StageLayout, Err: err}
		}
		if err := l.Mux.CreateSession(name, req.Path, layout); err != nil {
			return res, &StageError{Stage: StageCreate, Err: err}
		}
		res.Created = true
		log.Info("session created", "windows", len(layout))
	} else {
		log.Debug("session exists")
	}

	if l.History != nil {
		if err := l.History.Record(req.Path); err != nil {
			log.Warn("failed to record history", "error", err)
		}
	}

	if l.InsideClient || req.Client != "" {
		res.Switched = true
		log.Debug("switching client", "client", req.Client)
		if err := l.Mux.SwitchClient(name, req.Client); err != nil {
			return res, &StageError{Stage: StageAttach, Err: err}
		}
		return res, nil
	}

	log.Debug("attaching")
	if err := l.Mux.AttachSession(name); err != nil {
		return res, &StageError{Stage: StageAttach, Err: err}
	}
	return res, nil
}

func validatePath(path string) error {
	if path == "" || !utf8.ValidString(path) || strings.ContainsRune(path, 0) {
		return &InvalidPathError{Path: path}
	}
	return nil
}
