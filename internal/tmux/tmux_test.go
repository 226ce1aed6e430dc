package tmux

import (
	"errors"
	"os"
	"os/exec"
	"reflect"
	"strings"
	"testing"
)

var _ Multiplexer = (*LocalExecutor)(nil)

type exitError struct{ code int }

func (e *exitError) Error() string { return "exit status" }
func (e *exitError) ExitCode() int { return e.code }

// recorder returns an executor that records argv instead of running tmux.
func recorder(result error) (*LocalExecutor, *[][]string) {
	var calls [][]string
	l := &LocalExecutor{
		Bin: "/usr/bin/tmux",
		run: func(cmd *exec.Cmd) error {
			calls = append(calls, cmd.Args[1:])
			return result
		},
	}
	return l, &calls
}

func TestCreateArgs(t *testing.T) {
	args, err := CreateArgs("proj", "/src/proj", []string{"cmd0", "cmd1", "cmd2"})
	if err != nil {
		t.Fatal(err)
	}

	// Split on the tmux command separator.
	var cmds [][]string
	cur := []string{}
	for _, a := range args {
		if a == ";" {
			cmds = append(cmds, cur)
			cur = []string{}
			continue
		}
		cur = append(cur, a)
	}
	cmds = append(cmds, cur)

	want := [][]string{
		{"new-session", "-d", "-s", "proj", "-c", "/src/proj", "cmd0"},
		{"new-window", "-d", "-t", "=proj:", "-c", "/src/proj", "cmd1"},
		{"new-window", "-d", "-t", "=proj:", "-c", "/src/proj", "cmd2"},
	}
	if !reflect.DeepEqual(cmds, want) {
		t.Errorf("CreateArgs commands =\n%v\nwant\n%v", cmds, want)
	}
}

func TestCreateArgsSingleCommand(t *testing.T) {
	args, err := CreateArgs("p", "/d", []string{"vi ."})
	if err != nil {
		t.Fatal(err)
	}
	for _, a := range args {
		if a == ";" || a == "new-window" {
			t.Fatalf("single layout should not add windows: %v", args)
		}
	}
}

func TestCreateArgsEmptyLayout(t *testing.T) {
	if _, err := CreateArgs("p", "/d", nil); err == nil {
		t.Error("expected error for empty layout")
	}
}

func TestEscapeSeparator(t *testing.T) {
	tests := []struct {
		input  string
		expect string
	}{
		{"make", "make"},
		{"make; make test", "make; make test"},
		{"make;", `make\;`},
		{`make\;`, `make\\;`},
		{`find . -exec rm {} \;`, `find . -exec rm {} \\;`},
	}
	for _, tt := range tests {
		if got := escapeSeparator(tt.input); got != tt.expect {
			t.Errorf("escapeSeparator(%q) = %q, want %q", tt.input, got, tt.expect)
		}
	}
}

func TestCreateArgsKeepsEscapedSemicolon(t *testing.T) {
	args, err := CreateArgs("p", "/d", []string{"sleep 30", `find . -exec echo {} \;`})
	if err != nil {
		t.Fatal(err)
	}
	last := args[len(args)-1]
	if last != `find . -exec echo {} \\;` {
		t.Errorf("window command = %q, want the shell's \\; preserved through tmux", last)
	}
}

func TestSwitchArgs(t *testing.T) {
	if got := SwitchArgs("p", ""); !reflect.DeepEqual(got, []string{"switch-client", "-t", "=p"}) {
		t.Errorf("SwitchArgs without client = %v", got)
	}
	want := []string{"switch-client", "-t", "=p", "-c", "/dev/pts/3"}
	if got := SwitchArgs("p", "/dev/pts/3"); !reflect.DeepEqual(got, want) {
		t.Errorf("SwitchArgs with client = %v, want %v", got, want)
	}
}

func TestHasSession(t *testing.T) {
	tests := []struct {
		name    string
		result  error
		exists  bool
		wantErr bool
	}{
		{"present", nil, true, false},
		{"absent", &exitError{code: 1}, false, false},
		{"cannot run", errors.New("permission denied"), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, calls := recorder(tt.result)
			exists, err := l.HasSession("proj")
			if exists != tt.exists {
				t.Errorf("exists = %v, want %v", exists, tt.exists)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			var unavailable *UnavailableError
			if tt.wantErr && !errors.As(err, &unavailable) {
				t.Errorf("err = %T, want *UnavailableError", err)
			}
			if want := []string{"has-session", "-t", "=proj"}; !reflect.DeepEqual((*calls)[0], want) {
				t.Errorf("argv = %v, want %v", (*calls)[0], want)
			}
		})
	}
}

func TestCreateSessionFailure(t *testing.T) {
	l, calls := recorder(&exitError{code: 1})
	err := l.CreateSession("proj", "/src", []string{"a", "b"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "rejected session setup") {
		t.Errorf("err = %v", err)
	}
	if len(*calls) != 1 {
		t.Errorf("expected one batched tmux call, got %d", len(*calls))
	}
}

func TestAttachSessionFiltersTMUX(t *testing.T) {
	t.Setenv("TMUX", "/tmp/tmux-1000/default,1,0")
	var env []string
	l := &LocalExecutor{
		Bin: "/usr/bin/tmux",
		run: func(cmd *exec.Cmd) error {
			env = cmd.Env
			return nil
		},
	}
	if err := l.AttachSession("proj"); err != nil {
		t.Fatal(err)
	}
	for _, e := range env {
		if strings.HasPrefix(e, "TMUX=") {
			t.Errorf("TMUX leaked into attach env: %s", e)
		}
	}
}

func TestInsideClient(t *testing.T) {
	t.Setenv("TMUX", "")
	os.Unsetenv("TMUX")
	if InsideClient() {
		t.Error("InsideClient() = true with TMUX unset")
	}
	t.Setenv("TMUX", "")
	if !InsideClient() {
		t.Error("InsideClient() = false with TMUX set but empty")
	}
	t.Setenv("TMUX", "/tmp/tmux-1000/default,1,0")
	if !InsideClient() {
		t.Error("InsideClient() = false with TMUX set")
	}
}

func TestFilterTMUX(t *testing.T) {
	got := filterTMUX([]string{"HOME=/h", "TMUX=/s", "TMUX_PANE=%1"})
	want := []string{"HOME=/h", "TMUX_PANE=%1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("filterTMUX = %v, want %v", got, want)
	}
}
