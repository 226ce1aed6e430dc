// Package script evaluates the user's Lua configuration. The core only
// ever calls three global functions in it: resolve_name, resolve_layout
// and list_projects.
package script

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"

	"github.com/simon/tctrl/internal/logger"
	"github.com/simon/tctrl/internal/project"
)

//go:embed default.lua
var defaultScript string

const builtinSource = "<built-in>"

// Entry point names. The second name of each pair is the older spelling,
// still honoured so existing configs keep working.
var (
	nameEntryPoints   = []string{"resolve_name", "session_name"}
	layoutEntryPoints = []string{"resolve_layout", "get_layout"}
)

// Default returns the built-in configuration script.
func Default() string {
	return defaultScript
}

// ConfigLoadError means a configuration source exists but could not be
// read or evaluated.
type ConfigLoadError struct {
	Source string
	Err    error
}

func (e *ConfigLoadError) Error() string {
	return fmt.Sprintf("error loading configuration from %s: %v", e.Source, e.Err)
}

func (e *ConfigLoadError) Unwrap() error { return e.Err }

// EvalError means a defined entry point failed when called.
type EvalError struct {
	EntryPoint string
	Err        error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("error calling %s: %v", e.EntryPoint, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }

// Engine holds one Lua state with every configuration source applied.
// It is not safe for concurrent use.
type Engine struct {
	L   *lua.LState
	log *slog.Logger
}

// Sources returns the discoverable configuration files in load order.
func Sources() []string {
	home, _ := os.UserHomeDir()
	return sources(os.Getenv, home)
}

func sources(getenv func(string) string, home string) []string {
	paths := []string{"/etc/tctrl/config.lua"}
	if xdg := getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "tctrl", "config.lua"))
	} else if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "tctrl", "config.lua"))
	}
	return paths
}

// Load evaluates the built-in script, the discovered sources and finally
// explicit, if non-empty.
func Load(explicit string) (*Engine, error) {
	return LoadSources(Sources(), explicit)
}

// LoadSources is Load with the discovered sources given by the caller.
// Missing discovered files are skipped; a missing explicit file is an error.
func LoadSources(discovered []string, explicit string) (*Engine, error) {
	e := &Engine{
		L:   lua.NewState(),
		log: logger.WithComponent("script"),
	}

	if err := e.exec(builtinSource, []byte(defaultScript)); err != nil {
		e.Close()
		return nil, err
	}

	for _, path := range discovered {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			e.log.Debug("config source not present", "path", path)
			continue
		}
		if err != nil {
			e.Close()
			return nil, &ConfigLoadError{Source: path, Err: err}
		}
		if err := e.exec(path, data); err != nil {
			e.Close()
			return nil, err
		}
	}

	if explicit != "" {
		data, err := os.ReadFile(explicit)
		if err != nil {
			e.Close()
			return nil, &ConfigLoadError{Source: explicit, Err: err}
		}
		if err := e.exec(explicit, data); err != nil {
			e.Close()
			return nil, err
		}
	}

	return e, nil
}

func (e *Engine) exec(source string, data []byte) error {
	fn, err := e.L.Load(bytes.NewReader(data), source)
	if err != nil {
		return &ConfigLoadError{Source: source, Err: err}
	}
	e.L.Push(fn)
	if err := e.L.PCall(0, lua.MultRet, nil); err != nil {
		return &ConfigLoadError{Source: source, Err: err}
	}
	e.log.Debug("config source loaded", "source", source)
	return nil
}

// Close releases the Lua state.
func (e *Engine) Close() {
	e.L.Close()
}

// SessionName calls resolve_name. It reports ok=false when the function
// is not defined or returns nil.
func (e *Engine) SessionName(p project.NameParams) (string, bool, error) {
	fn, name, err := e.lookup(nameEntryPoints)
	if err != nil || fn == nil {
		return "", false, err
	}

	param := e.L.NewTable()
	param.RawSetString("path", lua.LString(p.Path))
	param.RawSetString("filename", lua.LString(p.Filename))

	ret, err := e.call(fn, name, param)
	if err != nil {
		return "", false, err
	}
	var s lua.LString
	switch v := ret.(type) {
	case lua.LString:
		s = v
	case lua.LNumber:
		s = lua.LString(v.String())
	default:
		if ret == lua.LNil {
			return "", false, nil
		}
		return "", false, &EvalError{EntryPoint: name, Err: fmt.Errorf("returned %s, want string", ret.Type())}
	}
	if s == "" {
		return "", false, &EvalError{EntryPoint: name, Err: errors.New("returned an empty session name")}
	}
	return string(s), true, nil
}

// Layout calls resolve_layout. It reports ok=false when the function is
// not defined or returns nil. An empty table is returned as-is.
func (e *Engine) Layout(p project.LayoutParams) ([]string, bool, error) {
	fn, name, err := e.lookup(layoutEntryPoints)
	if err != nil || fn == nil {
		return nil, false, err
	}

	param := e.L.NewTable()
	param.RawSetString("path", lua.LString(p.Path))
	param.RawSetString("filename", lua.LString(p.Filename))
	param.RawSetString("session_name", lua.LString(p.SessionName))

	ret, err := e.call(fn, name, param)
	if err != nil {
		return nil, false, err
	}
	if ret == lua.LNil {
		return nil, false, nil
	}
	cmds, err := stringList(ret)
	if err != nil {
		return nil, false, &EvalError{EntryPoint: name, Err: err}
	}
	return cmds, true, nil
}

// ListProjects calls list_projects.
func (e *Engine) ListProjects() ([]string, error) {
	const name = "list_projects"
	fn, _, err := e.lookup([]string{name})
	if err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, &EvalError{EntryPoint: name, Err: errors.New("not defined")}
	}

	ret, err := e.call(fn, name)
	if err != nil {
		return nil, err
	}
	paths, err := stringList(ret)
	if err != nil {
		return nil, &EvalError{EntryPoint: name, Err: err}
	}
	return paths, nil
}

// lookup returns the first defined global among names. A nil function
// with a nil error means none is defined.
func (e *Engine) lookup(names []string) (*lua.LFunction, string, error) {
	for _, name := range names {
		v := e.L.GetGlobal(name)
		if v == lua.LNil {
			continue
		}
		fn, ok := v.(*lua.LFunction)
		if !ok {
			return nil, name, &EvalError{EntryPoint: name, Err: fmt.Errorf("defined as %s, not a function", v.Type())}
		}
		return fn, name, nil
	}
	return nil, "", nil
}

func (e *Engine) call(fn *lua.LFunction, name string, args ...lua.LValue) (lua.LValue, error) {
	e.log.Debug("calling entry point", "name", name)
	if err := e.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		return nil, &EvalError{EntryPoint: name, Err: err}
	}
	ret := e.L.Get(-1)
	e.L.Pop(1)
	return ret, nil
}

func stringList(v lua.LValue) ([]string, error) {
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("returned %s, want table of strings", v.Type())
	}
	n := tbl.Len()
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		s, ok := tbl.RawGetInt(i).(lua.LString)
		if !ok {
			return nil, fmt.Errorf("element %d is %s, want string", i, tbl.RawGetInt(i).Type())
		}
		out = append(out, string(s))
	}
	return out, nil
}
