package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileMissing(t *testing.T) {
	s, err := LoadFile(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if s.Tmux != "" || s.HomeSession != "" || s.DisableHistory {
		t.Errorf("unexpected settings: %+v", s)
	}
	if s.HistoryLimit != defaultHistoryLimit {
		t.Errorf("HistoryLimit = %d, want %d", s.HistoryLimit, defaultHistoryLimit)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("HOME", "/home/me")
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
tmux: ~/bin/tmux
home_session: home
disable_history: true
history_limit: 10
log_file: /var/log/tctrl.log
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := Settings{
		Tmux:           "/home/me/bin/tmux",
		HomeSession:    "home",
		DisableHistory: true,
		HistoryLimit:   10,
		LogFile:        "/var/log/tctrl.log",
	}
	if *s != want {
		t.Errorf("settings = %+v, want %+v", *s, want)
	}
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("tmux: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	got, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if want := "/xdg/tctrl/config.yaml"; got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/me")
	got, _ = Path()
	if want := "/home/me/.config/tctrl/config.yaml"; got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}
