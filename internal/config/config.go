package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const defaultHistoryLimit = 200

// Settings are the non-scripted options. Naming and layout policy live in
// the Lua configuration instead.
type Settings struct {
	// Tmux is the tmux binary; empty means look it up on $PATH.
	Tmux string `yaml:"tmux"`

	// HomeSession, when set, names the session for the home directory.
	HomeSession string `yaml:"home_session"`

	DisableHistory bool `yaml:"disable_history"`
	HistoryLimit   int  `yaml:"history_limit"`

	LogFile string `yaml:"log_file"`
}

// Path returns $XDG_CONFIG_HOME/tctrl/config.yaml, falling back to
// ~/.config/tctrl/config.yaml.
func Path() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tctrl", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tctrl", "config.yaml"), nil
}

// Load reads the settings from Path.
// Returns defaults if the file doesn't exist.
func Load() (*Settings, error) {
	path, err := Path()
	if err != nil {
		return withDefaults(&Settings{}), nil
	}
	return LoadFile(path)
}

// LoadFile reads the settings from path.
func LoadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return withDefaults(&Settings{}), nil
		}
		return nil, err
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}

	// Expand ~ in paths
	home, _ := os.UserHomeDir()
	s.Tmux = expandHome(s.Tmux, home)
	s.LogFile = expandHome(s.LogFile, home)

	return withDefaults(&s), nil
}

func withDefaults(s *Settings) *Settings {
	if s.HistoryLimit <= 0 {
		s.HistoryLimit = defaultHistoryLimit
	}
	return s
}

func expandHome(path, home string) string {
	if home != "" && len(path) > 0 && path[0] == '~' {
		return filepath.Join(home, path[1:])
	}
	return path
}
