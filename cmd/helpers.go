package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/simon/tctrl/internal/config"
	"github.com/simon/tctrl/internal/logger"
	"github.com/simon/tctrl/internal/project"
	"github.com/simon/tctrl/internal/script"
	"github.com/simon/tctrl/internal/state"
	"github.com/simon/tctrl/internal/tmux"
	"github.com/simon/tctrl/internal/tui"
)

func initLogging(s *config.Settings) {
	path := s.LogFile
	if path == "" {
		var err error
		path, err = logger.DefaultLogPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to get default log path: %v\n", err)
			return
		}
	}
	if err := logger.Init(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	logger.SetDebug(debug)
}

// loadEngine evaluates the built-in, discovered and --config scripts.
func loadEngine() (*script.Engine, error) {
	engine, err := script.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return engine, nil
}

func newResolver(engine *script.Engine) *project.Resolver {
	home, _ := os.UserHomeDir()
	return &project.Resolver{
		Policy:      engine,
		HomeDir:     home,
		HomeSession: settings.HomeSession,
	}
}

func newMultiplexer() tmux.Multiplexer {
	return tmux.NewLocalExecutor(settings.Tmux)
}

// openHistory returns nil when history is disabled or unavailable.
func openHistory() *state.Store {
	if settings.DisableHistory {
		return nil
	}
	store, err := state.Open(settings.HistoryLimit)
	if err != nil {
		logger.WithComponent("state").Warn("history unavailable", "error", err)
		return nil
	}
	return store
}

// pickProject lets the user choose among list_projects, most recently
// opened first.
func pickProject(engine *script.Engine) (string, error) {
	projects, err := engine.ListProjects()
	if err != nil {
		return "", fmt.Errorf("list projects: %w", err)
	}

	if store := openHistory(); store != nil {
		recent, err := store.Recent()
		store.Close()
		if err == nil {
			projects = state.SortByRecent(projects, recent)
		}
	}

	return tui.Pick(projects)
}

// absPath expands a leading ~ and makes path absolute.
func absPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return filepath.Abs(path)
}
